// Package faq 游戏常见问题查询
package faq

import (
	"context"
	"errors"
	"fmt"

	"github.com/ashwinyue/tabletop-ai/internal/model"
	"github.com/ashwinyue/tabletop-ai/internal/service/access"
)

// ErrAccessDenied 特性开关拒绝访问
var ErrAccessDenied = errors.New("faq access denied")

// Store FAQ 存储
type Store interface {
	ListActiveByGame(gameID, language string) ([]*model.GameFAQ, error)
}

// AccessResolver 特性开关解析器
type AccessResolver interface {
	CheckFaqAccess(ctx context.Context, userID, role, gameID string) *access.FeatureAccess
}

// ViewLogger FAQ 浏览埋点
type ViewLogger interface {
	LogFAQView(ctx context.Context, userID, gameID string)
}

// Service FAQ 服务
type Service struct {
	store   Store
	access  AccessResolver
	tracker ViewLogger
}

// NewService 创建 FAQ 服务
func NewService(store Store, resolver AccessResolver, tracker ViewLogger) *Service {
	return &Service{store: store, access: resolver, tracker: tracker}
}

// ListFAQs 列出某个游戏的有效 FAQ，按展示顺序返回
//
// 浏览事件在后台记录，不阻塞也不影响返回
func (s *Service) ListFAQs(ctx context.Context, userID, role, gameID, language string) ([]*model.GameFAQ, error) {
	fa := s.access.CheckFaqAccess(ctx, userID, role, gameID)
	if !fa.HasAccess {
		return nil, fmt.Errorf("%w: %s", ErrAccessDenied, fa.Reason)
	}

	faqs, err := s.store.ListActiveByGame(gameID, language)
	if err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}

	if s.tracker != nil {
		go s.tracker.LogFAQView(context.WithoutCancel(ctx), userID, gameID)
	}

	return faqs, nil
}
