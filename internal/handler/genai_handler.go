package handler

import (
	"log"

	"github.com/ashwinyue/tabletop-ai/internal/middleware"
	"github.com/ashwinyue/tabletop-ai/internal/model"
	"github.com/ashwinyue/tabletop-ai/internal/service"
	"github.com/ashwinyue/tabletop-ai/internal/service/genai"
	"github.com/ashwinyue/tabletop-ai/internal/service/usage"
	"github.com/gin-gonic/gin"
)

// GenAIHandler 规则问答处理器
type GenAIHandler struct {
	svc *service.Services
}

// NewGenAIHandler 创建规则问答处理器
func NewGenAIHandler(svc *service.Services) *GenAIHandler {
	return &GenAIHandler{svc: svc}
}

// QueryRequest 问答请求
type QueryRequest struct {
	GameID    string `json:"game_id" binding:"required"`
	Question  string `json:"question" binding:"required,min=1,max=2000"`
	Language  string `json:"language" binding:"omitempty,len=2"`
	SessionID string `json:"session_id"`
}

// ModelInfo 生效的模型标识，含 token 用量和被吸收的阶段错误
type ModelInfo struct {
	Provider         string            `json:"provider"`
	Model            string            `json:"model"`
	TotalTokens      int               `json:"total_tokens,omitempty"`
	PromptTokens     int               `json:"prompt_tokens,omitempty"`
	CompletionTokens int               `json:"completion_tokens,omitempty"`
	Errors           map[string]string `json:"errors,omitempty"`
}

// QueryResponse 问答响应
type QueryResponse struct {
	SessionID string            `json:"session_id"`
	Answer    string            `json:"answer"`
	Citations []genai.Citation  `json:"citations"`
	ModelInfo ModelInfo         `json:"model_info"`
	Limits    *usage.LimitCheck `json:"limits,omitempty"`
}

// Query 处理一次规则问答
func (h *GenAIHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c, "user not authenticated")
		return
	}
	role := middleware.GetUserRole(c)
	ctx := c.Request.Context()

	// 游戏存在性和 game_access 开关一起判定，拒绝和不存在不可区分
	game, err := h.svc.Game.GetGame(ctx, userID, role, req.GameID)
	if err != nil {
		InternalServerError(c, "failed to load game")
		return
	}
	if game == nil {
		NotFound(c, "Game not found")
		return
	}

	chatAccess := h.svc.Access.CheckChatAccess(ctx, userID, role, req.GameID)
	if !chatAccess.HasAccess {
		Forbidden(c, chatAccess.Reason)
		return
	}

	// 只有开关带 daily_limit 元数据时才做配额检查
	var limits *usage.LimitCheck
	if dailyLimit, hasLimit := chatAccess.DailyLimit(); hasLimit {
		limits = h.svc.Usage.CheckDailyLimit(ctx, userID, model.EventChatQuestion, dailyLimit, req.GameID)
		if !limits.HasQuota {
			ForbiddenWithData(c, "Daily question limit reached", limits)
			return
		}
	}

	language := req.Language
	if language == "" {
		language = h.svc.Config.Chat.DefaultLanguage
	}

	session, err := h.svc.Sessions.GetOrCreateSession(ctx, userID, req.GameID, language,
		h.svc.ModelProvider, h.svc.ModelName, req.SessionID)
	if err != nil {
		InternalServerError(c, "failed to open session")
		return
	}

	storeID := h.svc.Knowledge.ResolveStore(ctx, req.GameID, language)
	if storeID == "" {
		NotFound(c, "No rulebook content uploaded for this game")
		return
	}

	history, err := h.svc.Sessions.GetSessionHistory(ctx, session.ID, h.svc.Config.Chat.HistoryLimit)
	if err != nil {
		// 没有历史也能回答，降级为单轮
		log.Printf("failed to load history for session %s: %v", session.ID, err)
		history = nil
	}

	result, err := h.svc.GenAI.Answer(ctx, storeID, history, req.Question)
	if err != nil {
		log.Printf("query failed for session %s: %v", session.ID, err)
		InternalServerError(c, "failed to answer question")
		return
	}

	// 问答事件在回答成功后才记账，失败的请求不消耗配额
	// 消息落库和计数都尽力而为，答案已经产出就不再失败
	h.svc.Analytics.LogQuestion(ctx, userID, req.GameID, session.ID, language, len(req.Question))
	if _, err := h.svc.Sessions.AddMessage(ctx, session.ID, model.SenderUser, req.Question, nil); err != nil {
		log.Printf("failed to persist question for session %s: %v", session.ID, err)
	}
	answerMeta := model.JSON{
		"citations_count": len(result.Citations),
		"tokens_used":     result.Usage.TotalTokens,
	}
	if _, err := h.svc.Sessions.AddMessage(ctx, session.ID, model.SenderAssistant, result.Answer, answerMeta); err != nil {
		log.Printf("failed to persist answer for session %s: %v", session.ID, err)
	}
	h.svc.Sessions.UpdateSessionStats(ctx, session.ID, userID, 2, result.Usage.TotalTokens)
	h.svc.Analytics.LogAnswer(ctx, userID, req.GameID, session.ID, result)

	citations := result.Citations
	if citations == nil {
		citations = []genai.Citation{}
	}

	Success(c, QueryResponse{
		SessionID: session.ID,
		Answer:    result.Answer,
		Citations: citations,
		ModelInfo: ModelInfo{
			Provider:         h.svc.ModelProvider,
			Model:            h.svc.ModelName,
			TotalTokens:      result.Usage.TotalTokens,
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			Errors:           result.Errors,
		},
		Limits: limits,
	})
}
