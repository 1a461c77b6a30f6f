package handler

import (
	"github.com/ashwinyue/tabletop-ai/internal/middleware"
	"github.com/ashwinyue/tabletop-ai/internal/service"
	"github.com/gin-gonic/gin"
)

// GameHandler 游戏目录处理器
type GameHandler struct {
	svc *service.Services
}

// NewGameHandler 创建游戏目录处理器
func NewGameHandler(svc *service.Services) *GameHandler {
	return &GameHandler{svc: svc}
}

// List 列出当前用户可访问的游戏
func (h *GameHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c, "user not authenticated")
		return
	}

	games, err := h.svc.Game.ListGames(c.Request.Context(), userID, middleware.GetUserRole(c))
	if err != nil {
		InternalServerError(c, "failed to list games")
		return
	}
	Success(c, games)
}

// Get 获取单个游戏详情
func (h *GameHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c, "user not authenticated")
		return
	}

	game, err := h.svc.Game.GetGame(c.Request.Context(), userID, middleware.GetUserRole(c), c.Param("id"))
	if err != nil {
		InternalServerError(c, "failed to load game")
		return
	}
	if game == nil {
		NotFound(c, "Game not found")
		return
	}
	Success(c, game)
}

// FeatureAccess 获取单个游戏下各特性的访问结果
func (h *GameHandler) FeatureAccess(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c, "user not authenticated")
		return
	}

	summary := h.svc.Game.GetGameFeatureAccess(c.Request.Context(), userID, middleware.GetUserRole(c), c.Param("id"))
	Success(c, summary)
}
