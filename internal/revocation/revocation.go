package revocation

import (
	"context"
	"time"
)

// Store keeps tokens that were explicitly revoked before natural expiry.
// Entries self-expire after the given ttl, so the denylist stays bounded
// by the number of tokens that are still otherwise valid.
type Store interface {
	// Mark token revoked for ttl. Idempotent
	Revoke(ctx context.Context, token string, ttl time.Duration) error

	// Check if token was revoked and not yet expired
	IsRevoked(ctx context.Context, token string) (bool, error)
}
