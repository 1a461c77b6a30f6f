package handler

import (
	"context"
	"log"

	"github.com/ashwinyue/tabletop-ai/internal/service"
	"github.com/gin-gonic/gin"
)

// AdminHandler 管理接口处理器，路由层已限制 admin 角色
type AdminHandler struct {
	svc *service.Services
}

// NewAdminHandler 创建管理接口处理器
func NewAdminHandler(svc *service.Services) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// ListFlags 列出某个特性在当前环境下的全部开关
func (h *AdminHandler) ListFlags(c *gin.Context) {
	featureKey := c.Query("feature_key")
	if featureKey == "" {
		BadRequest(c, "feature_key is required")
		return
	}

	flags, err := h.svc.Repo.Flag.ListByFeature(featureKey, h.svc.Config.App.Environment)
	if err != nil {
		InternalServerError(c, "failed to list flags")
		return
	}
	Success(c, flags)
}

// ListDocuments 列出某个游戏已登记的规则书文档
func (h *AdminHandler) ListDocuments(c *gin.Context) {
	docs, err := h.svc.Repo.Document.ListByGame(c.Param("id"))
	if err != nil {
		InternalServerError(c, "failed to list documents")
		return
	}
	Success(c, docs)
}

// ProcessDocument 触发一篇文档的解析入库，异步执行
func (h *AdminHandler) ProcessDocument(c *gin.Context) {
	if h.svc.Ingest == nil {
		InternalServerError(c, "document processing unavailable")
		return
	}

	documentID := c.Param("id")
	doc, err := h.svc.Repo.Document.GetByID(documentID)
	if err != nil || doc == nil {
		NotFound(c, "Document not found")
		return
	}

	go func() {
		if err := h.svc.Ingest.ProcessDocument(context.Background(), documentID); err != nil {
			log.Printf("document processing failed for %s: %v", documentID, err)
		}
	}()

	Accepted(c, gin.H{"document_id": documentID, "status": "processing"})
}
