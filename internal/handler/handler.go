package handler

import (
	"github.com/ashwinyue/tabletop-ai/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	GenAI   *GenAIHandler
	Game    *GameHandler
	Session *SessionHandler
	FAQ     *FAQHandler
	Usage   *UsageHandler
	Admin   *AdminHandler
	System  *SystemHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		GenAI:   NewGenAIHandler(svc),
		Game:    NewGameHandler(svc),
		Session: NewSessionHandler(svc),
		FAQ:     NewFAQHandler(svc),
		Usage:   NewUsageHandler(svc),
		Admin:   NewAdminHandler(svc),
		System:  NewSystemHandler(svc),
	}
}
