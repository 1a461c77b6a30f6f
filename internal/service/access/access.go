// Package access 实现功能开关的作用域/角色优先级求值
package access

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ashwinyue/tabletop-ai/internal/config"
	"github.com/ashwinyue/tabletop-ai/internal/model"
)

// FlagStore 功能开关查询接口，由 repository.FlagRepository 实现
type FlagStore interface {
	ListFlags(featureKey, environment, scopeType, scopeID, role string) ([]*model.FeatureFlag, error)
	ListByScopeType(featureKey, environment, scopeType, role string) ([]*model.FeatureFlag, error)
}

// GameStore 游戏 ID 枚举接口，由 repository.GameRepository 实现
type GameStore interface {
	ListIDs() ([]string, error)
}

// FeatureAccess 一次求值的结果，每次求值新建，不持久化
type FeatureAccess struct {
	HasAccess  bool       `json:"has_access"`
	FeatureKey string     `json:"feature_key"`
	Reason     string     `json:"reason"`
	Metadata   model.JSON `json:"metadata,omitempty"`
}

// DailyLimit 读取胜出开关携带的每日限额
func (a *FeatureAccess) DailyLimit() (int, bool) {
	if a == nil || a.Metadata == nil {
		return 0, false
	}
	return a.Metadata.Int(model.MetaDailyLimit)
}

// AccessibleGames 用户可访问的游戏集合
type AccessibleGames struct {
	All     bool     `json:"all"`
	GameIDs []string `json:"game_ids"`
}

// Service 功能访问求值服务
type Service struct {
	flags FlagStore
	games GameStore
	cfg   *config.Config
	cache *Cache
}

// NewService 创建功能访问服务
func NewService(flags FlagStore, games GameStore, cfg *config.Config, cache *Cache) *Service {
	return &Service{flags: flags, games: games, cfg: cfg, cache: cache}
}

// candidate 一次候选查询 (scope_type, scope_id, role)
type candidate struct {
	scopeType string
	scopeID   string
	role      string
}

// CheckAccess 求值用户对某功能的访问权
//
// 候选查询按最具体到最不具体排列，并发发出，但结果严格按
// 候选顺序消费：更具体作用域上的禁用开关会遮蔽更宽作用域上的
// 启用开关。单个候选查询失败只视为该候选无匹配。
func (s *Service) CheckAccess(ctx context.Context, userID, role, featureKey, scopeType, scopeID string) *FeatureAccess {
	// 开发环境下 admin/developer 直通
	if s.cfg.App.IsDevelopment() && (role == "admin" || role == "developer") {
		return &FeatureAccess{
			HasAccess:  true,
			FeatureKey: featureKey,
			Reason:     fmt.Sprintf("%s role has full access in dev environment", role),
		}
	}

	// admin 直通
	if role == "admin" {
		return &FeatureAccess{
			HasAccess:  true,
			FeatureKey: featureKey,
			Reason:     "admin role has full access",
		}
	}

	cacheKey := fmt.Sprintf("%s:%s:%s:%s:%s", userID, role, featureKey, scopeType, scopeID)
	if cached, ok := s.cache.Get(ctx, cacheKey); ok {
		return cached
	}

	candidates := buildCandidates(userID, role, scopeType, scopeID)
	results := s.lookupAll(candidates, featureKey)

	// 结果按候选顺序消费，第一个有匹配的候选胜出
	for i, cand := range candidates {
		flags := results[i]
		if len(flags) == 0 {
			continue
		}

		flag := flags[0]
		access := &FeatureAccess{
			HasAccess:  flag.Enabled,
			FeatureKey: featureKey,
			Reason:     describeOutcome(cand, flag.Enabled),
			Metadata:   flag.Metadata,
		}
		s.cache.Set(ctx, cacheKey, access)
		return access
	}

	access := &FeatureAccess{
		HasAccess:  false,
		FeatureKey: featureKey,
		Reason:     fmt.Sprintf("No feature flag found for %s in %s scope", featureKey, scopeType),
	}
	s.cache.Set(ctx, cacheKey, access)
	return access
}

// buildCandidates 构建候选查询列表，最具体的在前
func buildCandidates(userID, role, scopeType, scopeID string) []candidate {
	candidates := []candidate{
		{model.ScopeUser, userID, role},
		{model.ScopeUser, userID, ""},
	}

	if (scopeType == model.ScopeGame || scopeType == model.ScopeSection) && scopeID != "" {
		candidates = append(candidates,
			candidate{scopeType, scopeID, role},
			candidate{scopeType, scopeID, ""},
		)
	}

	candidates = append(candidates,
		candidate{model.ScopeGlobal, "", role},
		candidate{model.ScopeGlobal, "", ""},
	)
	return candidates
}

// lookupAll 并发发出全部候选查询，按位置收集结果
// 并发只为降低延迟，优先级仍由位置决定
func (s *Service) lookupAll(candidates []candidate, featureKey string) [][]*model.FeatureFlag {
	environment := s.cfg.App.Environment
	results := make([][]*model.FeatureFlag, len(candidates))

	var wg sync.WaitGroup
	for i, cand := range candidates {
		wg.Add(1)
		go func(i int, cand candidate) {
			defer wg.Done()
			flags, err := s.flags.ListFlags(featureKey, environment, cand.scopeType, cand.scopeID, cand.role)
			if err != nil {
				log.Printf("flag lookup failed for %s/%s/%s: %v", cand.scopeType, cand.scopeID, cand.role, err)
				return
			}
			results[i] = flags
		}(i, cand)
	}
	wg.Wait()

	return results
}

// describeOutcome 胜出开关的可读说明
func describeOutcome(cand candidate, enabled bool) string {
	verb := "Disabled"
	if enabled {
		verb = "Enabled"
	}
	if cand.role != "" {
		return fmt.Sprintf("%s by %s flag for role %s", verb, cand.scopeType, cand.role)
	}
	return fmt.Sprintf("%s by %s flag", verb, cand.scopeType)
}

// CheckGameAccess 求值对游戏本身的访问权
func (s *Service) CheckGameAccess(ctx context.Context, userID, role, gameID string) *FeatureAccess {
	return s.CheckAccess(ctx, userID, role, model.FeatureGameAccess, model.ScopeGame, gameID)
}

// CheckFaqAccess 求值对游戏 FAQ 的访问权
func (s *Service) CheckFaqAccess(ctx context.Context, userID, role, gameID string) *FeatureAccess {
	return s.CheckAccess(ctx, userID, role, model.FeatureFAQ, model.ScopeGame, gameID)
}

// CheckChatAccess 求值对游戏问答助手的访问权
func (s *Service) CheckChatAccess(ctx context.Context, userID, role, gameID string) *FeatureAccess {
	return s.CheckAccess(ctx, userID, role, model.FeatureChat, model.ScopeGame, gameID)
}

// GetUserAccessibleGames 枚举用户可访问的游戏
//
// admin 和开发环境下的 developer 可访问全部游戏。其余用户按
// game_access 开关求值：存在启用的全局开关即放开全部游戏，
// 否则取启用的 game 作用域开关的 scope_id 并集。
func (s *Service) GetUserAccessibleGames(ctx context.Context, userID, role string) (*AccessibleGames, error) {
	if role == "admin" || (s.cfg.App.IsDevelopment() && role == "developer") {
		ids, err := s.games.ListIDs()
		if err != nil {
			return nil, fmt.Errorf("failed to list games: %w", err)
		}
		return &AccessibleGames{All: true, GameIDs: ids}, nil
	}

	environment := s.cfg.App.Environment

	// 角色专属与角色无关的 game/global 开关并发查询
	queries := []struct {
		scopeType string
		role      string
	}{
		{model.ScopeGame, role},
		{model.ScopeGame, ""},
		{model.ScopeGlobal, role},
		{model.ScopeGlobal, ""},
	}

	results := make([][]*model.FeatureFlag, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, scopeType, qRole string) {
			defer wg.Done()
			flags, err := s.flags.ListByScopeType(model.FeatureGameAccess, environment, scopeType, qRole)
			if err != nil {
				log.Printf("game access lookup failed for %s/%s: %v", scopeType, qRole, err)
				return
			}
			results[i] = flags
		}(i, q.scopeType, q.role)
	}
	wg.Wait()

	seen := make(map[string]bool)
	var gameIDs []string
	allGames := false

	for _, flags := range results {
		for _, flag := range flags {
			if !flag.Enabled {
				continue
			}
			if flag.ScopeType == model.ScopeGlobal {
				allGames = true
				continue
			}
			if flag.ScopeID == nil || *flag.ScopeID == "" {
				continue
			}
			if !seen[*flag.ScopeID] {
				seen[*flag.ScopeID] = true
				gameIDs = append(gameIDs, *flag.ScopeID)
			}
		}
	}

	if allGames {
		ids, err := s.games.ListIDs()
		if err != nil {
			return nil, fmt.Errorf("failed to list games: %w", err)
		}
		return &AccessibleGames{All: true, GameIDs: ids}, nil
	}

	return &AccessibleGames{GameIDs: gameIDs}, nil
}
