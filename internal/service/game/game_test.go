package game

import (
	"context"
	"errors"
	"testing"

	"github.com/ashwinyue/tabletop-ai/internal/model"
	"github.com/ashwinyue/tabletop-ai/internal/service/access"
)

type mockStore struct {
	games    map[string]*model.Game
	getError error
}

func (m *mockStore) GetByID(id string) (*model.Game, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.games[id], nil
}

func (m *mockStore) List(statuses []string) ([]*model.Game, error) {
	var out []*model.Game
	for _, g := range m.games {
		if containsStatus(statuses, g.Status) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockStore) ListByIDs(ids []string, statuses []string) ([]*model.Game, error) {
	var out []*model.Game
	for _, id := range ids {
		g, ok := m.games[id]
		if ok && containsStatus(statuses, g.Status) {
			out = append(out, g)
		}
	}
	return out, nil
}

func containsStatus(statuses []string, status string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type mockAccess struct {
	accessible *access.AccessibleGames
	listError  error
	gameAccess map[string]bool
	faqAccess  bool
	chatAccess bool
}

func (m *mockAccess) CheckGameAccess(ctx context.Context, userID, role, gameID string) *access.FeatureAccess {
	return &access.FeatureAccess{HasAccess: m.gameAccess[gameID], FeatureKey: model.FeatureGameAccess}
}

func (m *mockAccess) CheckFaqAccess(ctx context.Context, userID, role, gameID string) *access.FeatureAccess {
	return &access.FeatureAccess{HasAccess: m.faqAccess, FeatureKey: model.FeatureFAQ}
}

func (m *mockAccess) CheckChatAccess(ctx context.Context, userID, role, gameID string) *access.FeatureAccess {
	return &access.FeatureAccess{HasAccess: m.chatAccess, FeatureKey: model.FeatureChat}
}

func (m *mockAccess) GetUserAccessibleGames(ctx context.Context, userID, role string) (*access.AccessibleGames, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.accessible, nil
}

func catalogStore() *mockStore {
	return &mockStore{games: map[string]*model.Game{
		"catan":    {ID: "catan", NameBase: "Catan", Status: model.GameActive},
		"frosthvn": {ID: "frosthvn", NameBase: "Frosthaven", Status: model.GameBeta},
		"proto":    {ID: "proto", NameBase: "Prototype", Status: model.GameHidden},
	}}
}

func TestListGamesStatusVisibility(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{"player sees active only", "user", 1},
		{"tester sees beta too", "tester", 2},
		{"developer sees beta too", "developer", 2},
		{"admin sees everything", "admin", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(catalogStore(), &mockAccess{accessible: &access.AccessibleGames{All: true}})
			games, err := svc.ListGames(context.Background(), "u1", tt.role)
			if err != nil {
				t.Fatalf("ListGames() error = %v", err)
			}
			if len(games) != tt.want {
				t.Errorf("len(games) = %d, want %d", len(games), tt.want)
			}
		})
	}
}

func TestListGamesScopedToAccessibleIDs(t *testing.T) {
	svc := NewService(catalogStore(), &mockAccess{
		accessible: &access.AccessibleGames{GameIDs: []string{"catan", "frosthvn"}},
	})

	games, err := svc.ListGames(context.Background(), "u1", "user")
	if err != nil {
		t.Fatalf("ListGames() error = %v", err)
	}
	if len(games) != 1 || games[0].ID != "catan" {
		t.Errorf("games = %+v, want catan only (beta filtered for plain user)", games)
	}
}

func TestListGamesNoAccessibleGames(t *testing.T) {
	svc := NewService(catalogStore(), &mockAccess{accessible: &access.AccessibleGames{}})
	games, err := svc.ListGames(context.Background(), "u1", "user")
	if err != nil {
		t.Fatalf("ListGames() error = %v", err)
	}
	if len(games) != 0 {
		t.Errorf("games = %+v, want empty", games)
	}
}

func TestListGamesResolverError(t *testing.T) {
	svc := NewService(catalogStore(), &mockAccess{listError: errors.New("db down")})
	if _, err := svc.ListGames(context.Background(), "u1", "user"); err == nil {
		t.Fatal("ListGames() error = nil, want error")
	}
}

func TestGetGame(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		gameID     string
		gameAccess map[string]bool
		wantFound  bool
	}{
		{"accessible active game", "user", "catan", map[string]bool{"catan": true}, true},
		{"flag denies access", "user", "catan", map[string]bool{}, false},
		{"beta hidden from plain user", "user", "frosthvn", map[string]bool{"frosthvn": true}, false},
		{"beta visible to tester", "tester", "frosthvn", map[string]bool{"frosthvn": true}, true},
		{"unknown game", "user", "nope", map[string]bool{"nope": true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(catalogStore(), &mockAccess{gameAccess: tt.gameAccess})
			g, err := svc.GetGame(context.Background(), "u1", tt.role, tt.gameID)
			if err != nil {
				t.Fatalf("GetGame() error = %v", err)
			}
			if (g != nil) != tt.wantFound {
				t.Errorf("found = %v, want %v", g != nil, tt.wantFound)
			}
		})
	}
}

func TestGetGameFeatureAccess(t *testing.T) {
	svc := NewService(catalogStore(), &mockAccess{faqAccess: true, chatAccess: false})
	summary := svc.GetGameFeatureAccess(context.Background(), "u1", "user", "catan")
	if summary.FAQ == nil || !summary.FAQ.HasAccess {
		t.Errorf("FAQ access = %+v, want granted", summary.FAQ)
	}
	if summary.Chat == nil || summary.Chat.HasAccess {
		t.Errorf("Chat access = %+v, want denied", summary.Chat)
	}
}
