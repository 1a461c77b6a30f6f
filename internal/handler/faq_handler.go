package handler

import (
	"errors"

	"github.com/ashwinyue/tabletop-ai/internal/middleware"
	"github.com/ashwinyue/tabletop-ai/internal/service"
	"github.com/ashwinyue/tabletop-ai/internal/service/faq"
	"github.com/gin-gonic/gin"
)

// FAQHandler 常见问题处理器
type FAQHandler struct {
	svc *service.Services
}

// NewFAQHandler 创建常见问题处理器
func NewFAQHandler(svc *service.Services) *FAQHandler {
	return &FAQHandler{svc: svc}
}

// ListByGame 列出某个游戏的 FAQ
func (h *FAQHandler) ListByGame(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c, "user not authenticated")
		return
	}

	language := c.DefaultQuery("language", h.svc.Config.Chat.DefaultLanguage)

	faqs, err := h.svc.FAQ.ListFAQs(c.Request.Context(), userID, middleware.GetUserRole(c), c.Param("id"), language)
	if err != nil {
		if errors.Is(err, faq.ErrAccessDenied) {
			Forbidden(c, err.Error())
			return
		}
		InternalServerError(c, "failed to list faqs")
		return
	}
	Success(c, faqs)
}
