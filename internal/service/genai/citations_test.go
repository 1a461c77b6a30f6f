package genai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveFollowsRedirect(t *testing.T) {
	var final string
	mux := http.NewServeMux()
	mux.HandleFunc("/target", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/jump", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final, http.StatusFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	final = server.URL + "/target"

	r := NewRedirectResolver()
	got := r.Resolve(context.Background(), server.URL+"/jump")
	if got != final {
		t.Errorf("Resolve() = %q, want %q", got, final)
	}
}

func TestResolveKeepsOriginalOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	unreachable := server.URL + "/gone"
	server.Close()

	r := NewRedirectResolver()
	if got := r.Resolve(context.Background(), unreachable); got != unreachable {
		t.Errorf("Resolve() = %q, want original URL on failure", got)
	}
}

func TestResolveEmptyAndNil(t *testing.T) {
	r := NewRedirectResolver()
	if got := r.Resolve(context.Background(), ""); got != "" {
		t.Errorf("Resolve(empty) = %q, want empty", got)
	}

	var nilResolver *RedirectResolver
	if got := nilResolver.Resolve(context.Background(), "http://example.com"); got != "http://example.com" {
		t.Errorf("nil resolver Resolve() = %q, want passthrough", got)
	}
}
