package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "authd:revoked:"

// RedisStore is a Redis implementation of the Store interface
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: keyPrefix,
	}
}

// Revoke marks a token as revoked in Redis
// The key expires together with the token, so no cleanup is needed
func (s *RedisStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	key := s.prefix + token

	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// IsRevoked checks if a token is present in the denylist
func (s *RedisStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	key := s.prefix + token

	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}

	return val > 0, nil
}
