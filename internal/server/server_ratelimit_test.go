package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"lecturehub/internal/app"
	"lecturehub/internal/ratelimit"
	"lecturehub/pkg/store"
)

func TestLoginRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter, err := ratelimit.NewFixedWindowLimiter(client, "test:auth", 2, time.Minute)
	if err != nil {
		t.Fatalf("NewFixedWindowLimiter: %v", err)
	}

	core, err := app.New(app.Config{
		Store:    store.NewMemoryStore(),
		Sessions: store.NewMemorySessionStore(),
	})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	srv := httptest.NewServer(New(Config{App: core, AuthLimiter: limiter}).Router())
	defer srv.Close()

	body := []byte(`{"email":"a@example.com","password":"nope"}`)
	for i := 0; i < 2; i++ {
		resp, err := http.Post(srv.URL+"/user/login", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("POST login: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("login #%d status = %d, want 401", i+1, resp.StatusCode)
		}
	}

	resp, err := http.Post(srv.URL+"/user/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("throttled login status = %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}
}

func TestNoLimiterAllowsAll(t *testing.T) {
	srv := newTestServer(t)
	body := []byte(`{"email":"a@example.com","password":"nope"}`)
	for i := 0; i < 5; i++ {
		resp, err := http.Post(srv.URL+"/user/login", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("POST login: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			t.Fatalf("request #%d throttled without a limiter", i+1)
		}
	}
}
