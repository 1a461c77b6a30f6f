package repository

import (
	"errors"

	"github.com/ashwinyue/tabletop-ai/internal/model"
	"gorm.io/gorm"
)

// GameRepository 游戏数据访问
type GameRepository struct {
	db *gorm.DB
}

// NewGameRepository 创建游戏仓库
func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

// GetByID 获取游戏，不存在返回 nil
func (r *GameRepository) GetByID(id string) (*model.Game, error) {
	var game model.Game
	err := r.db.Where("id = ?", id).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// List 按状态列出游戏
func (r *GameRepository) List(statuses []string) ([]*model.Game, error) {
	var games []*model.Game
	err := r.db.
		Where("status IN ?", statuses).
		Order("name_base ASC").
		Find(&games).Error
	return games, err
}

// ListByIDs 按 ID 与状态列出游戏
func (r *GameRepository) ListByIDs(ids, statuses []string) ([]*model.Game, error) {
	if len(ids) == 0 {
		return []*model.Game{}, nil
	}
	var games []*model.Game
	err := r.db.
		Where("id IN ? AND status IN ?", ids, statuses).
		Order("name_base ASC").
		Find(&games).Error
	return games, err
}

// ListIDs 列出全部游戏 ID
func (r *GameRepository) ListIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&model.Game{}).Pluck("id", &ids).Error
	return ids, err
}
