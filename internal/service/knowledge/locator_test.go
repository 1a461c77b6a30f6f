// Package knowledge 提供索引定位单元测试
package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/ashwinyue/tabletop-ai/internal/model"
)

// mockDocumentStore Mock Document Store
type mockDocumentStore struct {
	docs map[string]*model.GameDocument // key: gameID|language
	err  error
}

func (m *mockDocumentStore) GetReadyByGameAndLanguage(gameID, language string) (*model.GameDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs[gameID+"|"+language], nil
}

func TestResolveStore(t *testing.T) {
	tests := []struct {
		name     string
		docs     map[string]*model.GameDocument
		gameID   string
		language string
		want     string
	}{
		{
			name: "direct hit in requested language",
			docs: map[string]*model.GameDocument{
				"game-1|es": {VectorStoreID: "game-game-1"},
			},
			gameID:   "game-1",
			language: "es",
			want:     "game-game-1",
		},
		{
			name: "falls back to en when requested language has no ready document",
			docs: map[string]*model.GameDocument{
				"game-1|en": {VectorStoreID: "game-game-1"},
			},
			gameID:   "game-1",
			language: "es",
			want:     "game-game-1",
		},
		{
			name:     "no ready documents at all",
			docs:     map[string]*model.GameDocument{},
			gameID:   "game-1",
			language: "es",
			want:     "",
		},
		{
			name:     "requested language equals fallback, no double lookup",
			docs:     map[string]*model.GameDocument{},
			gameID:   "game-1",
			language: "en",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locator := NewLocator(&mockDocumentStore{docs: tt.docs}, "en")

			got := locator.ResolveStore(context.Background(), tt.gameID, tt.language)

			if got != tt.want {
				t.Errorf("ResolveStore() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveStoreLookupError(t *testing.T) {
	locator := NewLocator(&mockDocumentStore{err: errors.New("store unavailable")}, "en")

	if got := locator.ResolveStore(context.Background(), "game-1", "es"); got != "" {
		t.Errorf("ResolveStore() = %q, want empty on lookup failure", got)
	}
}
