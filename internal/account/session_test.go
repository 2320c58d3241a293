package account

import (
	"testing"
	"time"
)

func TestSessions_IssueResolveRevoke(t *testing.T) {
	s := NewSessions(time.Hour)

	token, err := s.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	user, ok := s.Resolve(token)
	if !ok || user != "alice" {
		t.Errorf("Resolve = %q, %v", user, ok)
	}

	s.Revoke(token)
	if _, ok := s.Resolve(token); ok {
		t.Error("revoked token still resolves")
	}
}

func TestSessions_UnknownToken(t *testing.T) {
	s := NewSessions(time.Hour)
	if _, ok := s.Resolve("deadbeef"); ok {
		t.Error("unknown token should not resolve")
	}
}

func TestSessions_Expiry(t *testing.T) {
	s := NewSessions(time.Hour)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	token, err := s.Issue("alice")
	if err != nil {
		t.Fatal(err)
	}

	clock = clock.Add(59 * time.Minute)
	if _, ok := s.Resolve(token); !ok {
		t.Error("token expired too early")
	}

	clock = clock.Add(2 * time.Minute)
	if _, ok := s.Resolve(token); ok {
		t.Error("token should have expired")
	}
}

func TestSessions_TokensAreUnique(t *testing.T) {
	s := NewSessions(time.Hour)
	a, err := s.Issue("alice")
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Issue("alice")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two issued tokens collide")
	}
}
