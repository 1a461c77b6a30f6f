package faq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ashwinyue/tabletop-ai/internal/model"
	"github.com/ashwinyue/tabletop-ai/internal/service/access"
)

type mockStore struct {
	faqs      []*model.GameFAQ
	listError error
}

func (m *mockStore) ListActiveByGame(gameID, language string) ([]*model.GameFAQ, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.faqs, nil
}

type mockAccess struct {
	allowed bool
	reason  string
}

func (m *mockAccess) CheckFaqAccess(ctx context.Context, userID, role, gameID string) *access.FeatureAccess {
	return &access.FeatureAccess{HasAccess: m.allowed, FeatureKey: model.FeatureFAQ, Reason: m.reason}
}

type mockTracker struct {
	mu    sync.Mutex
	views []string
}

func (m *mockTracker) LogFAQView(ctx context.Context, userID, gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views = append(m.views, userID+"/"+gameID)
}

func (m *mockTracker) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}

func TestListFAQs(t *testing.T) {
	store := &mockStore{faqs: []*model.GameFAQ{
		{ID: "f1", Question: "How many cards?", Position: 1},
		{ID: "f2", Question: "Who goes first?", Position: 2},
	}}
	tracker := &mockTracker{}
	svc := NewService(store, &mockAccess{allowed: true}, tracker)

	faqs, err := svc.ListFAQs(context.Background(), "u1", "user", "catan", "en")
	if err != nil {
		t.Fatalf("ListFAQs() error = %v", err)
	}
	if len(faqs) != 2 {
		t.Fatalf("len(faqs) = %d, want 2", len(faqs))
	}

	// 浏览埋点是异步的
	deadline := time.Now().Add(time.Second)
	for tracker.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if tracker.count() != 1 {
		t.Errorf("view events = %d, want 1", tracker.count())
	}
}

func TestListFAQsAccessDenied(t *testing.T) {
	tracker := &mockTracker{}
	svc := NewService(&mockStore{}, &mockAccess{allowed: false, reason: "Disabled by global flag"}, tracker)

	_, err := svc.ListFAQs(context.Background(), "u1", "user", "catan", "en")
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("error = %v, want ErrAccessDenied", err)
	}
	if tracker.count() != 0 {
		t.Errorf("view logged on denied access")
	}
}

func TestListFAQsStoreError(t *testing.T) {
	svc := NewService(&mockStore{listError: errors.New("db down")}, &mockAccess{allowed: true}, &mockTracker{})
	if _, err := svc.ListFAQs(context.Background(), "u1", "user", "catan", "en"); err == nil {
		t.Fatal("ListFAQs() error = nil, want error")
	}
}

func TestListFAQsNilTracker(t *testing.T) {
	svc := NewService(&mockStore{}, &mockAccess{allowed: true}, nil)
	if _, err := svc.ListFAQs(context.Background(), "u1", "user", "catan", "en"); err != nil {
		t.Fatalf("ListFAQs() error = %v", err)
	}
}
