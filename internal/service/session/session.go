// Package session 实现聊天会话的创建、续用与消息记录
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ashwinyue/tabletop-ai/internal/model"
	"github.com/google/uuid"
)

// ErrSessionNotFound 会话不存在或不属于当前用户
var ErrSessionNotFound = errors.New("session not found")

// Store 会话存储接口，由 repository.ChatRepository 实现
type Store interface {
	CreateSession(session *model.ChatSession) error
	GetActiveSession(id, userID string) (*model.ChatSession, error)
	GetSessionByID(id string) (*model.ChatSession, error)
	UpdateSession(session *model.ChatSession) error
	ListSessions(userID string, offset, limit int) ([]*model.ChatSession, error)
	CreateMessage(msg *model.ChatMessage) error
	GetRecentMessagesBySession(sessionID string, limit int) ([]*model.ChatMessage, error)
	GetMessagesBySessionID(sessionID string) ([]*model.ChatMessage, error)
}

// Manager 会话管理器
type Manager struct {
	store Store
	now   func() time.Time
}

// NewManager 创建会话管理器
func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// GetOrCreateSession 续用或新建会话
//
// 续用严格按 (id, user_id, status=active) 匹配：属于其他用户或已
// 关闭的会话按未找到处理，落回新建，不在这一层报授权错误。
// 查找失败同样落回新建。
func (m *Manager) GetOrCreateSession(ctx context.Context, userID, gameID, language, provider, modelName, sessionID string) (*model.ChatSession, error) {
	if sessionID != "" {
		existing, err := m.store.GetActiveSession(sessionID, userID)
		if err != nil {
			log.Printf("session lookup failed for %s: %v", sessionID, err)
		}
		if existing != nil {
			existing.LastActivityAt = m.now()
			if err := m.store.UpdateSession(existing); err != nil {
				log.Printf("failed to stamp session %s: %v", existing.ID, err)
			}
			return existing, nil
		}
	}

	now := m.now()
	session := &model.ChatSession{
		ID:             uuid.New().String(),
		UserID:         userID,
		GameID:         gameID,
		Language:       language,
		ModelProvider:  provider,
		ModelName:      modelName,
		Status:         model.SessionActive,
		StartedAt:      now,
		LastActivityAt: now,
	}

	if err := m.store.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// AddMessage 追加消息
// 存储失败返回给调用方，由调用方决定是否致命
func (m *Manager) AddMessage(ctx context.Context, sessionID, sender, content string, metadata model.JSON) (*model.ChatMessage, error) {
	message := &model.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Sender:    sender,
		Content:   content,
		Metadata:  metadata,
	}

	if err := m.store.CreateMessage(message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return message, nil
}

// UpdateSessionStats 累加会话计数器并刷新活跃时间，尽力而为
func (m *Manager) UpdateSessionStats(ctx context.Context, sessionID, userID string, messageDelta, tokenDelta int) {
	session, err := m.store.GetActiveSession(sessionID, userID)
	if err != nil || session == nil {
		log.Printf("failed to load session %s for stats update: %v", sessionID, err)
		return
	}

	session.TotalMessages += messageDelta
	session.TotalTokenEstimate += tokenDelta
	session.LastActivityAt = m.now()

	if err := m.store.UpdateSession(session); err != nil {
		log.Printf("failed to update stats for session %s: %v", sessionID, err)
	}
}

// GetSessionHistory 返回会话最近 limit 条消息，从旧到新
// 用于为下一次模型调用拼接对话上下文
func (m *Manager) GetSessionHistory(ctx context.Context, sessionID string, limit int) ([]*model.ChatMessage, error) {
	messages, err := m.store.GetRecentMessagesBySession(sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	// 查询按时间倒序取最近 N 条，这里反转成从旧到新
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// GetSessionMessages 返回会话全部消息，已关闭的会话也可以回看
func (m *Manager) GetSessionMessages(ctx context.Context, sessionID, userID string) ([]*model.ChatMessage, error) {
	session, err := m.store.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}
	if session == nil || session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return m.store.GetMessagesBySessionID(sessionID)
}

// ListSessions 列出用户的会话
func (m *Manager) ListSessions(ctx context.Context, userID string, page, size int) ([]*model.ChatSession, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return m.store.ListSessions(userID, (page-1)*size, size)
}

// CloseSession 关闭会话，尽力而为
func (m *Manager) CloseSession(ctx context.Context, sessionID, userID string) {
	session, err := m.store.GetActiveSession(sessionID, userID)
	if err != nil || session == nil {
		log.Printf("failed to load session %s for close: %v", sessionID, err)
		return
	}

	now := m.now()
	session.Status = model.SessionClosed
	session.ClosedAt = &now

	if err := m.store.UpdateSession(session); err != nil {
		log.Printf("failed to close session %s: %v", sessionID, err)
	}
}
