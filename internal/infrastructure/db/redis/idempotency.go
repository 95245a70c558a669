package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore maps client-supplied Idempotency-Key headers to the
// request ids they created, so replayed submissions return the original
// request. Key format: submit:<key>
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Lookup returns the request id previously remembered for key, or "" when
// the key has not been seen.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, error) {
	id, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, nil
}

// Remember records the request id created for key (expires after idempotencyTTL).
func (s *IdempotencyStore) Remember(ctx context.Context, key, requestID string) error {
	return s.client.Set(ctx, s.key(key), requestID, idempotencyTTL).Err()
}

func (s *IdempotencyStore) key(key string) string {
	return "submit:" + key
}
