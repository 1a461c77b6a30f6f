package handler

import (
	"strconv"

	"github.com/ashwinyue/tabletop-ai/internal/middleware"
	"github.com/ashwinyue/tabletop-ai/internal/service"
	"github.com/gin-gonic/gin"
)

// UsageHandler 使用统计处理器
type UsageHandler struct {
	svc *service.Services
}

// NewUsageHandler 创建使用统计处理器
func NewUsageHandler(svc *service.Services) *UsageHandler {
	return &UsageHandler{svc: svc}
}

// Stats 返回当前用户最近 N 天的使用统计
func (h *UsageHandler) Stats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c, "user not authenticated")
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	stats, err := h.svc.Usage.GetUserStats(c.Request.Context(), userID, days)
	if err != nil {
		InternalServerError(c, "failed to load usage stats")
		return
	}
	Success(c, stats)
}
