package repository

import (
	"github.com/ashwinyue/tabletop-ai/internal/model"
	"gorm.io/gorm"
)

// FAQRepository 常见问题数据访问
type FAQRepository struct {
	db *gorm.DB
}

// NewFAQRepository 创建常见问题仓库
func NewFAQRepository(db *gorm.DB) *FAQRepository {
	return &FAQRepository{db: db}
}

// ListActiveByGame 列出游戏在某语言下启用的常见问题，按位置排序
func (r *FAQRepository) ListActiveByGame(gameID, language string) ([]*model.GameFAQ, error) {
	var faqs []*model.GameFAQ
	err := r.db.
		Where("game_id = ? AND language = ? AND is_active = ?", gameID, language, true).
		Order("position ASC").
		Find(&faqs).Error
	return faqs, err
}
