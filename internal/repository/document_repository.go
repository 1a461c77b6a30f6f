package repository

import (
	"errors"

	"github.com/ashwinyue/tabletop-ai/internal/model"
	"gorm.io/gorm"
)

// DocumentRepository 规则书文档数据访问
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository 创建文档仓库
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// GetByID 获取文档
func (r *DocumentRepository) GetByID(id string) (*model.GameDocument, error) {
	var doc model.GameDocument
	err := r.db.Where("id = ?", id).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetReadyByGameAndLanguage 获取 (game, language) 下第一个就绪且有索引的文档
// 没有匹配时返回 nil
func (r *DocumentRepository) GetReadyByGameAndLanguage(gameID, language string) (*model.GameDocument, error) {
	var doc model.GameDocument
	err := r.db.
		Where("game_id = ? AND language = ? AND status = ? AND vector_store_id <> ''",
			gameID, language, model.DocumentReady).
		Order("created_at ASC").
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListByGame 列出游戏的文档
func (r *DocumentRepository) ListByGame(gameID string) ([]*model.GameDocument, error) {
	var docs []*model.GameDocument
	err := r.db.Where("game_id = ?", gameID).Order("created_at ASC").Find(&docs).Error
	return docs, err
}

// Update 更新文档
func (r *DocumentRepository) Update(doc *model.GameDocument) error {
	return r.db.Save(doc).Error
}
