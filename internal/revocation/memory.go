package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of the Store interface.
// Meant for tests and single-binary runs without Redis
type MemoryStore struct {
	revoked map[string]time.Time
	mu      sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := time.Now().Add(ttl)

	// Keep the later expiry if the token was revoked twice
	if current, ok := s.revoked[token]; ok && current.After(expiresAt) {
		return nil
	}
	s.revoked[token] = expiresAt

	return nil
}

func (s *MemoryStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiresAt, ok := s.revoked[token]
	if !ok {
		return false, nil
	}

	// Entry outlived the token it was revoking
	if time.Now().After(expiresAt) {
		return false, nil
	}

	return true, nil
}
