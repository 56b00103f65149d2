// Package idempotency guards order placement against client retries with the
// same Idempotency-Key header. Keys are remembered in Redis with a TTL; a key
// seen within the window rejects the duplicate request before any store work.
package idempotency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idempotency-key:"

type Guard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGuard(client *redis.Client, ttl time.Duration) *Guard {
	return &Guard{
		client: client,
		ttl:    ttl,
	}
}

// FirstUse records the key and reports whether this is the first time it has
// been seen within the TTL window. The set-if-absent write keeps concurrent
// retries from both passing.
func (g *Guard) FirstUse(ctx context.Context, key string) (bool, error) {
	return g.client.SetNX(ctx, keyPrefix+key, "1", g.ttl).Result()
}

// Release forgets a key so the client may retry, used when placement fails
// after the key was claimed.
func (g *Guard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, keyPrefix+key).Err()
}
