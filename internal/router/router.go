package router

import (
	"github.com/ashwinyue/tabletop-ai/internal/config"
	"github.com/ashwinyue/tabletop-ai/internal/handler"
	"github.com/ashwinyue/tabletop-ai/internal/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers, cfg *config.Config) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())

	// 健康检查不走认证
	r.GET("/health", h.System.Health)

	// API v1，全部需要认证
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RequireAuth(cfg))
	{
		// GenAI 规则问答
		genai := v1.Group("/genai")
		{
			genai.POST("/query", h.GenAI.Query)
		}

		// Game 游戏目录
		games := v1.Group("/games")
		{
			games.GET("", h.Game.List)
			games.GET("/:id", h.Game.Get)
			games.GET("/:id/access", h.Game.FeatureAccess)
			games.GET("/:id/faqs", h.FAQ.ListByGame)
		}

		// Session 会话
		sessions := v1.Group("/sessions")
		{
			sessions.GET("", h.Session.List)
			sessions.GET("/:id/messages", h.Session.Messages)
			sessions.POST("/:id/close", h.Session.Close)
		}

		// Usage 使用统计
		usage := v1.Group("/usage")
		{
			usage.GET("/stats", h.Usage.Stats)
		}

		// Admin 管理接口
		admin := v1.Group("/admin")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.GET("/flags", h.Admin.ListFlags)
			admin.GET("/games/:id/documents", h.Admin.ListDocuments)
			admin.POST("/documents/:id/process", h.Admin.ProcessDocument)
		}
	}

	return r
}
