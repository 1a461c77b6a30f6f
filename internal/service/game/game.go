// Package game 游戏目录查询，叠加可见性和访问控制
package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/ashwinyue/tabletop-ai/internal/model"
	"github.com/ashwinyue/tabletop-ai/internal/service/access"
)

// Store 游戏目录存储
type Store interface {
	GetByID(id string) (*model.Game, error)
	List(statuses []string) ([]*model.Game, error)
	ListByIDs(ids []string, statuses []string) ([]*model.Game, error)
}

// AccessResolver 特性开关解析器
type AccessResolver interface {
	CheckGameAccess(ctx context.Context, userID, role, gameID string) *access.FeatureAccess
	CheckFaqAccess(ctx context.Context, userID, role, gameID string) *access.FeatureAccess
	CheckChatAccess(ctx context.Context, userID, role, gameID string) *access.FeatureAccess
	GetUserAccessibleGames(ctx context.Context, userID, role string) (*access.AccessibleGames, error)
}

// FeatureAccessSummary 单个游戏的各特性访问结果
type FeatureAccessSummary struct {
	FAQ  *access.FeatureAccess `json:"faq"`
	Chat *access.FeatureAccess `json:"chat"`
}

// Service 游戏目录服务
type Service struct {
	store  Store
	access AccessResolver
}

// NewService 创建游戏目录服务
func NewService(store Store, resolver AccessResolver) *Service {
	return &Service{store: store, access: resolver}
}

// visibleStatuses 角色能看到的游戏状态
//
// beta 只对内部角色开放，hidden 只有 admin 能看
func visibleStatuses(role string) []string {
	switch role {
	case "admin":
		return []string{model.GameActive, model.GameBeta, model.GameHidden}
	case "developer", "tester":
		return []string{model.GameActive, model.GameBeta}
	default:
		return []string{model.GameActive}
	}
}

func statusVisible(role, status string) bool {
	for _, s := range visibleStatuses(role) {
		if s == status {
			return true
		}
	}
	return false
}

// ListGames 列出用户可访问且状态可见的游戏
func (s *Service) ListGames(ctx context.Context, userID, role string) ([]*model.Game, error) {
	accessible, err := s.access.GetUserAccessibleGames(ctx, userID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accessible games: %w", err)
	}

	statuses := visibleStatuses(role)
	if accessible.All {
		return s.store.List(statuses)
	}
	if len(accessible.GameIDs) == 0 {
		return []*model.Game{}, nil
	}
	return s.store.ListByIDs(accessible.GameIDs, statuses)
}

// GetGame 获取单个游戏，不可访问和不存在的游戏对调用方无区别
func (s *Service) GetGame(ctx context.Context, userID, role, gameID string) (*model.Game, error) {
	g, err := s.store.GetByID(gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if g == nil || !statusVisible(role, g.Status) {
		return nil, nil
	}

	if fa := s.access.CheckGameAccess(ctx, userID, role, gameID); !fa.HasAccess {
		return nil, nil
	}
	return g, nil
}

// GetGameFeatureAccess 并发查询游戏下各特性的访问结果
func (s *Service) GetGameFeatureAccess(ctx context.Context, userID, role, gameID string) *FeatureAccessSummary {
	summary := &FeatureAccessSummary{}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		summary.FAQ = s.access.CheckFaqAccess(ctx, userID, role, gameID)
	}()
	go func() {
		defer wg.Done()
		summary.Chat = s.access.CheckChatAccess(ctx, userID, role, gameID)
	}()
	wg.Wait()

	return summary
}
