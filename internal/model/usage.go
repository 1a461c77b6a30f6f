package model

import "time"

// 使用事件类型
const (
	EventChatQuestion = "chat_question"
	EventChatAnswer   = "chat_answer"
	EventFAQView      = "faq_view"
)

// UsageEvent 使用事件，只追加，不更新不删除
type UsageEvent struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"index;size:36;not null" json:"user_id"`
	EventType   string    `gorm:"index;size:50;not null" json:"event_type"`
	GameID      string    `gorm:"index;size:36" json:"game_id,omitempty"`
	FeatureKey  string    `gorm:"size:100" json:"feature_key,omitempty"`
	Environment string    `gorm:"index;size:20" json:"environment"`
	ExtraInfo   JSON      `gorm:"type:jsonb" json:"extra_info,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName 指定表名
func (UsageEvent) TableName() string {
	return "usage_events"
}
