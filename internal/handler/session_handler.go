package handler

import (
	"errors"
	"strconv"

	"github.com/ashwinyue/tabletop-ai/internal/middleware"
	"github.com/ashwinyue/tabletop-ai/internal/service"
	"github.com/ashwinyue/tabletop-ai/internal/service/session"
	"github.com/gin-gonic/gin"
)

// SessionHandler 聊天会话处理器
type SessionHandler struct {
	svc *service.Services
}

// NewSessionHandler 创建聊天会话处理器
func NewSessionHandler(svc *service.Services) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// List 分页列出当前用户的会话
func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c, "user not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	sessions, err := h.svc.Sessions.ListSessions(c.Request.Context(), userID, page, size)
	if err != nil {
		InternalServerError(c, "failed to list sessions")
		return
	}
	Success(c, sessions)
}

// Messages 返回单个会话的全部消息
func (h *SessionHandler) Messages(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c, "user not authenticated")
		return
	}

	messages, err := h.svc.Sessions.GetSessionMessages(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			NotFound(c, "Session not found")
			return
		}
		InternalServerError(c, "failed to load messages")
		return
	}
	Success(c, messages)
}

// Close 关闭会话
func (h *SessionHandler) Close(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c, "user not authenticated")
		return
	}

	h.svc.Sessions.CloseSession(c.Request.Context(), c.Param("id"), userID)
	NoContent(c)
}
