package repository

import (
	"errors"

	"github.com/ashwinyue/tabletop-ai/internal/model"
	"gorm.io/gorm"
)

// ChatRepository 聊天数据访问
type ChatRepository struct {
	db *gorm.DB
}

// NewChatRepository 创建聊天仓库
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// CreateSession 创建会话
func (r *ChatRepository) CreateSession(session *model.ChatSession) error {
	return r.db.Create(session).Error
}

// GetActiveSession 按 (id, user_id, status=active) 获取会话
// 属于其他用户或已关闭的会话视为不存在，返回 nil
func (r *ChatRepository) GetActiveSession(id, userID string) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.db.
		Where("id = ? AND user_id = ? AND status = ?", id, userID, model.SessionActive).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessionByID 获取会话
func (r *ChatRepository) GetSessionByID(id string) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.db.Where("id = ?", id).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions 列出用户的会话
func (r *ChatRepository) ListSessions(userID string, offset, limit int) ([]*model.ChatSession, error) {
	var sessions []*model.ChatSession
	err := r.db.
		Where("user_id = ?", userID).
		Order("last_activity_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

// UpdateSession 更新会话
func (r *ChatRepository) UpdateSession(session *model.ChatSession) error {
	return r.db.Save(session).Error
}

// CreateMessage 创建消息
func (r *ChatRepository) CreateMessage(msg *model.ChatMessage) error {
	return r.db.Create(msg).Error
}

// GetMessagesBySessionID 获取会话消息
func (r *ChatRepository) GetMessagesBySessionID(sessionID string) ([]*model.ChatMessage, error) {
	var messages []*model.ChatMessage
	err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&messages).Error
	return messages, err
}

// GetRecentMessagesBySession 获取会话最近的 N 条消息，新的在前
func (r *ChatRepository) GetRecentMessagesBySession(sessionID string, limit int) ([]*model.ChatMessage, error) {
	var messages []*model.ChatMessage
	err := r.db.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
