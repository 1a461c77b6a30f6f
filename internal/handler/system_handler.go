package handler

import (
	"github.com/ashwinyue/tabletop-ai/internal/service"
	"github.com/gin-gonic/gin"
)

// SystemHandler 系统处理器
type SystemHandler struct {
	svc *service.Services
}

// NewSystemHandler 创建系统处理器
func NewSystemHandler(svc *service.Services) *SystemHandler {
	return &SystemHandler{svc: svc}
}

// Health 健康检查
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	dbStatus := "ok"
	if sqlDB, err := h.svc.Repo.DB.DB(); err != nil {
		dbStatus = "error"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error"
	}

	status := "ok"
	if dbStatus != "ok" {
		status = "degraded"
	}

	Success(c, gin.H{
		"status":      status,
		"database":    dbStatus,
		"app":         h.svc.Config.App.Name,
		"version":     h.svc.Config.App.Version,
		"environment": h.svc.Config.App.Environment,
	})
}
