package model

import "time"

// 会话状态
const (
	SessionActive   = "active"
	SessionClosed   = "closed"
	SessionArchived = "archived"
)

// 消息发送方
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
	SenderSystem    = "system"
)

// ChatSession 聊天会话
type ChatSession struct {
	ID                 string        `gorm:"primaryKey;size:36" json:"id"`
	UserID             string        `gorm:"index;size:36" json:"user_id"`
	GameID             string        `gorm:"index;size:36" json:"game_id"`
	Language           string        `gorm:"size:5" json:"language"`
	ModelProvider      string        `gorm:"size:50" json:"model_provider"`
	ModelName          string        `gorm:"size:100" json:"model_name"`
	Status             string        `gorm:"index;size:20;default:active" json:"status"` // active, closed, archived
	TotalMessages      int           `gorm:"default:0" json:"total_messages"`
	TotalTokenEstimate int           `gorm:"default:0" json:"total_token_estimate"`
	StartedAt          time.Time     `json:"started_at"`
	LastActivityAt     time.Time     `json:"last_activity_at"`
	ClosedAt           *time.Time    `json:"closed_at,omitempty"`
	Messages           []ChatMessage `gorm:"foreignKey:SessionID" json:"-"`
}

// ChatMessage 聊天消息，创建后不可变
type ChatMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	SessionID string    `gorm:"index;size:36" json:"session_id"`
	Sender    string    `gorm:"size:20;index" json:"sender"` // user, assistant, system
	Content   string    `gorm:"type:text" json:"content"`
	Metadata  JSON      `gorm:"type:jsonb" json:"metadata,omitempty"` // 助手消息的引用和模型信息
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName 指定表名
func (ChatSession) TableName() string {
	return "chat_sessions"
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
