package testusers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchDecodesResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"email":"a@example.com"},{"email":"b@example.com"}]}`))
	}))
	defer ts.Close()

	users, err := NewWithURL(ts.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("Fetch() returned %d users, want 2", len(users))
	}
}

func TestFetchPropagatesUpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	if _, err := NewWithURL(ts.URL).Fetch(context.Background()); err == nil {
		t.Fatalf("Fetch() did not surface upstream failure")
	}
}
