// Package usage 实现使用事件台账与每日配额计数
package usage

import (
	"context"
	"log"
	"time"

	"github.com/ashwinyue/tabletop-ai/internal/model"
	"github.com/google/uuid"
)

// EventStore 使用事件存储接口，由 repository.UsageRepository 实现
type EventStore interface {
	CreateEvent(event *model.UsageEvent) error
	CountEventsSince(userID, eventType, environment, gameID string, since time.Time) (int64, error)
	ListEventsSince(userID, environment string, since time.Time) ([]*model.UsageEvent, error)
}

// LimitCheck 每日配额检查结果
type LimitCheck struct {
	HasQuota   bool      `json:"has_quota"`
	DailyUsed  int       `json:"daily_used"`
	DailyLimit int       `json:"daily_limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
}

// UserStats 用户使用统计
type UserStats struct {
	UserID      string         `json:"user_id"`
	Days        int            `json:"days"`
	TotalEvents int            `json:"total_events"`
	ByEventType map[string]int `json:"by_event_type"`
	ByGame      map[string]int `json:"by_game"`
}

// Service 使用统计服务
type Service struct {
	store       EventStore
	environment string
	now         func() time.Time
}

// NewService 创建使用统计服务
func NewService(store EventStore, environment string) *Service {
	return &Service{store: store, environment: environment, now: time.Now}
}

// LogUsageEvent 记录使用事件
// 只追加；持久化失败记日志后吞掉，绝不影响调用方请求
func (s *Service) LogUsageEvent(ctx context.Context, userID, eventType, gameID, featureKey string, extra model.JSON) {
	event := &model.UsageEvent{
		ID:          uuid.New().String(),
		UserID:      userID,
		EventType:   eventType,
		GameID:      gameID,
		FeatureKey:  featureKey,
		Environment: s.environment,
		ExtraInfo:   extra,
	}

	if err := s.store.CreateEvent(event); err != nil {
		log.Printf("failed to log usage event %s for user %s: %v", eventType, userID, err)
	}
}

// GetDailyUsageCount 统计当前 UTC 日内的事件数，失败时按 0 处理
func (s *Service) GetDailyUsageCount(ctx context.Context, userID, eventType, gameID string) int {
	count, err := s.store.CountEventsSince(userID, eventType, s.environment, gameID, s.utcDayStart())
	if err != nil {
		log.Printf("failed to count daily usage for user %s: %v", userID, err)
		return 0
	}
	return int(count)
}

// CheckDailyLimit 检查每日配额
// 配额只是胜出开关携带的建议元数据；在这里换算成剩余量和重置时间
func (s *Service) CheckDailyLimit(ctx context.Context, userID, eventType string, dailyLimit int, gameID string) *LimitCheck {
	used := s.GetDailyUsageCount(ctx, userID, eventType, gameID)

	remaining := dailyLimit - used
	if remaining < 0 {
		remaining = 0
	}

	return &LimitCheck{
		HasQuota:   used < dailyLimit,
		DailyUsed:  used,
		DailyLimit: dailyLimit,
		Remaining:  remaining,
		ResetAt:    s.utcDayStart().Add(24 * time.Hour),
	}
}

// GetUserStats 聚合用户最近 N 天的使用统计
func (s *Service) GetUserStats(ctx context.Context, userID string, days int) (*UserStats, error) {
	if days <= 0 {
		days = 7
	}

	since := s.utcDayStart().AddDate(0, 0, -(days - 1))
	events, err := s.store.ListEventsSince(userID, s.environment, since)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		UserID:      userID,
		Days:        days,
		TotalEvents: len(events),
		ByEventType: make(map[string]int),
		ByGame:      make(map[string]int),
	}
	for _, event := range events {
		stats.ByEventType[event.EventType]++
		if event.GameID != "" {
			stats.ByGame[event.GameID]++
		}
	}
	return stats, nil
}

// utcDayStart 当前 UTC 日的零点
func (s *Service) utcDayStart() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
