// Package redis is the Redis-backed windowed counter store: atomic counter
// mutation via a single Lua script per call.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/chris-alexander-pop/ratelimiter/internal/ratelimit/store"
	apperrors "github.com/chris-alexander-pop/ratelimiter/pkg/errors"
)

// incrementScript increments the counter and sets its expiry in one
// round trip, returning the value the counter held *before* this increment so
// the caller can make its admission decision against the pre-increment state.
var incrementScript = goredis.NewScript(`
local new_value = redis.call('INCRBY', KEYS[1], ARGV[1])
redis.call('EXPIRE', KEYS[1], ARGV[2])
return new_value - tonumber(ARGV[1])
`)

// Store is the Store implementation backed by a shared *redis.Client. One
// Store instance is constructed at startup and multiplexed across every
// in-flight RPC; go-redis pools and pipelines internally so concurrent use
// needs no extra locking here.
type Store struct {
	client goredis.Cmdable
}

// New wraps an existing Redis client. client is typically a *redis.Client
// built once in cmd/ratelimiterd and shared process-wide.
func New(client goredis.Cmdable) *Store {
	return &Store{client: client}
}

var _ store.Store = (*Store)(nil)

func (s *Store) ReadPrevious(ctx context.Context, k store.WindowKey) (uint32, error) {
	if k.Index <= 0 {
		return 0, nil
	}

	key := windowRedisKey(k.Key, k.Index-1)
	v, err := s.client.Get(ctx, key).Uint64()
	if err != nil {
		if err == goredis.Nil {
			return 0, nil
		}
		return 0, apperrors.Wrap(err, "read previous window counter")
	}
	return clampUint32(v), nil
}

func (s *Store) IncrementCurrent(ctx context.Context, k store.WindowKey, delta uint32) (uint32, error) {
	key := windowRedisKey(k.Key, k.Index)
	ttlSeconds := int64(k.Window.Seconds()) * 2
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	res, err := incrementScript.Run(ctx, s.client, []string{key}, delta, ttlSeconds).Int64()
	if err != nil {
		return 0, apperrors.Wrap(err, "increment current window counter")
	}
	if res < 0 {
		return 0, nil
	}
	return clampUint32(uint64(res)), nil
}

// windowRedisKey follows the external key schema verbatim: changing it
// breaks deployed state, since other tools may read these keys directly.
func windowRedisKey(key string, index int64) string {
	return fmt.Sprintf("%s.rate_limit.window.%d", key, index)
}

func clampUint32(v uint64) uint32 {
	if v > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(v)
}
