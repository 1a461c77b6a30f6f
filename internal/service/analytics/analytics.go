// Package analytics 把问答事件写入用量流水
package analytics

import (
	"context"

	"github.com/ashwinyue/tabletop-ai/internal/model"
	"github.com/ashwinyue/tabletop-ai/internal/service/genai"
	"github.com/ashwinyue/tabletop-ai/internal/service/usage"
)

// Emitter 问答事件发射器，所有方法都不返回错误，埋点失败不影响主流程
type Emitter struct {
	usage *usage.Service
}

// NewEmitter 创建发射器
func NewEmitter(usageSvc *usage.Service) *Emitter {
	return &Emitter{usage: usageSvc}
}

// LogQuestion 记录一次提问，提问事件同时是配额计数的依据
func (e *Emitter) LogQuestion(ctx context.Context, userID, gameID, sessionID, language string, questionLen int) {
	if e == nil || e.usage == nil {
		return
	}
	e.usage.LogUsageEvent(ctx, userID, model.EventChatQuestion, gameID, model.FeatureChat, model.JSON{
		"session_id":      sessionID,
		"language":        language,
		"question_length": questionLen,
	})
}

// LogAnswer 记录一次回答及其 token 用量
func (e *Emitter) LogAnswer(ctx context.Context, userID, gameID, sessionID string, result *genai.Result) {
	if e == nil || e.usage == nil || result == nil {
		return
	}
	e.usage.LogUsageEvent(ctx, userID, model.EventChatAnswer, gameID, model.FeatureChat, model.JSON{
		"session_id":      sessionID,
		"answer_length":   len(result.Answer),
		"citations_count": len(result.Citations),
		"tokens_used":     result.Usage.TotalTokens,
	})
}

// LogFAQView 记录一次 FAQ 浏览
func (e *Emitter) LogFAQView(ctx context.Context, userID, gameID string) {
	if e == nil || e.usage == nil {
		return
	}
	e.usage.LogUsageEvent(ctx, userID, model.EventFAQView, gameID, model.FeatureFAQ, nil)
}
