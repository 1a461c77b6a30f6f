package repository

import (
	"time"

	"github.com/ashwinyue/tabletop-ai/internal/model"
	"gorm.io/gorm"
)

// UsageRepository 使用事件数据访问，只追加
type UsageRepository struct {
	db *gorm.DB
}

// NewUsageRepository 创建使用事件仓库
func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// CreateEvent 创建使用事件
func (r *UsageRepository) CreateEvent(event *model.UsageEvent) error {
	return r.db.Create(event).Error
}

// CountEventsSince 统计某时间点之后的事件数
func (r *UsageRepository) CountEventsSince(userID, eventType, environment, gameID string, since time.Time) (int64, error) {
	query := r.db.Model(&model.UsageEvent{}).
		Where("user_id = ? AND event_type = ? AND environment = ? AND created_at >= ?",
			userID, eventType, environment, since)
	if gameID != "" {
		query = query.Where("game_id = ?", gameID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// ListEventsSince 列出某时间点之后的事件，供统计聚合
func (r *UsageRepository) ListEventsSince(userID, environment string, since time.Time) ([]*model.UsageEvent, error) {
	var events []*model.UsageEvent
	err := r.db.
		Where("user_id = ? AND environment = ? AND created_at >= ?", userID, environment, since).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}
