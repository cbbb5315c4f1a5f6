package store

import (
	"testing"
	"time"
)

func TestJWTSessionStoreRoundTrip(t *testing.T) {
	s, err := NewJWTSessionStore("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	id, ok, err := s.GetUserIDByToken(token)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if !ok || id != "user-1" {
		t.Fatalf("expected user-1, got %q ok=%v", id, ok)
	}
}

func TestJWTSessionStoreRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewJWTSessionStore("secret-a", time.Minute)
	verifier, _ := NewJWTSessionStore("secret-b", time.Minute)
	token, err := issuer.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, ok, _ := verifier.GetUserIDByToken(token); ok {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestJWTSessionStoreRejectsExpired(t *testing.T) {
	s, _ := NewJWTSessionStore("test-secret", -time.Minute)
	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, ok, _ := s.GetUserIDByToken(token); ok {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestJWTSessionStoreRequiresSecret(t *testing.T) {
	if _, err := NewJWTSessionStore("", time.Minute); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
