package account

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// Sessions issues and resolves bearer tokens. It is an in-memory map:
// restarting the server invalidates every session, which is acceptable
// for a single-user-facing journal.
type Sessions struct {
	ttl time.Duration
	now func() time.Time

	mu sync.Mutex
	m  map[string]sessionEntry
}

type sessionEntry struct {
	user    string
	expires time.Time
}

// NewSessions creates a session registry with the given token lifetime.
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sessions{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]sessionEntry),
	}
}

// Issue creates a fresh random token bound to user.
func (s *Sessions) Issue(user string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("account: generate token: %w", err)
	}
	token := hex.EncodeToString(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[token] = sessionEntry{user: user, expires: s.now().Add(s.ttl)}
	return token, nil
}

// Resolve returns the username bound to token, pruning it if expired.
func (s *Sessions) Resolve(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[token]
	if !ok {
		return "", false
	}
	if s.now().After(e.expires) {
		delete(s.m, token)
		return "", false
	}
	return e.user, true
}

// Revoke drops a token (logout).
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, token)
}
