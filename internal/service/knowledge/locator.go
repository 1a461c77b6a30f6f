// Package knowledge 负责解析游戏的检索索引并维护其内容
package knowledge

import (
	"context"
	"log"

	"github.com/ashwinyue/tabletop-ai/internal/model"
)

// DocumentStore 文档记录查询接口，由 repository.DocumentRepository 实现
type DocumentStore interface {
	GetReadyByGameAndLanguage(gameID, language string) (*model.GameDocument, error)
}

// Locator 知识索引定位器
// 按 (game, language) 找第一个就绪文档的索引标识；同一游戏的
// 所有文档共享一个索引，所以取第一个匹配即可。
type Locator struct {
	docs             DocumentStore
	fallbackLanguage string
}

// NewLocator 创建定位器
func NewLocator(docs DocumentStore, fallbackLanguage string) *Locator {
	if fallbackLanguage == "" {
		fallbackLanguage = "en"
	}
	return &Locator{docs: docs, fallbackLanguage: fallbackLanguage}
}

// ResolveStore 解析游戏在某语言下的索引标识
// 请求语言没有就绪文档时回退到 fallback 语言；都没有返回空串。
func (l *Locator) ResolveStore(ctx context.Context, gameID, language string) string {
	doc, err := l.docs.GetReadyByGameAndLanguage(gameID, language)
	if err != nil {
		log.Printf("store lookup failed for game %s lang %s: %v", gameID, language, err)
	}
	if doc != nil {
		return doc.VectorStoreID
	}

	if language == l.fallbackLanguage {
		return ""
	}

	doc, err = l.docs.GetReadyByGameAndLanguage(gameID, l.fallbackLanguage)
	if err != nil {
		log.Printf("fallback store lookup failed for game %s: %v", gameID, err)
	}
	if doc != nil {
		return doc.VectorStoreID
	}
	return ""
}
