package tests

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-alexander-pop/ratelimiter/internal/clock"
	"github.com/chris-alexander-pop/ratelimiter/internal/ratelimit/acquire"
	"github.com/chris-alexander-pop/ratelimiter/internal/ratelimit/policy"
	redisstore "github.com/chris-alexander-pop/ratelimiter/internal/ratelimit/store/redis"
	apperrors "github.com/chris-alexander-pop/ratelimiter/pkg/errors"
)

func newTestOrchestrator(t *testing.T, maxTokens uint32, windowSec uint32) *acquire.Orchestrator {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	st := redisstore.New(client)
	resolver := policy.NewResolver(nil, policy.Definition{MaxTokens: maxTokens, WindowSec: windowSec})

	return acquire.New(resolver, st, clock.System{}, time.Second, nil)
}

func TestAcquire_SingleAcquireOnFreshKey(t *testing.T) {
	orch := newTestOrchestrator(t, 10, 60)

	resp, err := orch.Acquire(context.Background(), acquire.Request{Key: uuid.NewString(), Tokens: 1})
	require.NoError(t, err)
	assert.True(t, resp.Allowed)
	assert.Equal(t, int32(9), resp.Remaining)
	assert.Greater(t, resp.ResetAfter, time.Now().UnixMilli())
}

func TestAcquire_ExhaustionThenDenial(t *testing.T) {
	orch := newTestOrchestrator(t, 10, 60)
	key := uuid.NewString()

	resp, err := orch.Acquire(context.Background(), acquire.Request{Key: key, Tokens: 10})
	require.NoError(t, err)
	assert.True(t, resp.Allowed)

	resp, err = orch.Acquire(context.Background(), acquire.Request{Key: key, Tokens: 1})
	require.NoError(t, err)
	assert.False(t, resp.Allowed)
	assert.Equal(t, int32(0), resp.Remaining)
}

func TestAcquire_KeysAreIsolated(t *testing.T) {
	orch := newTestOrchestrator(t, 10, 60)

	keyA := uuid.NewString()
	keyB := uuid.NewString()

	_, err := orch.Acquire(context.Background(), acquire.Request{Key: keyA, Tokens: 10})
	require.NoError(t, err)

	resp, err := orch.Acquire(context.Background(), acquire.Request{Key: keyB, Tokens: 1})
	require.NoError(t, err)
	assert.True(t, resp.Allowed)
	assert.Equal(t, int32(9), resp.Remaining)
}

func TestAcquire_RejectsNonPositiveTokens(t *testing.T) {
	orch := newTestOrchestrator(t, 10, 60)

	_, err := orch.Acquire(context.Background(), acquire.Request{Key: "k", Tokens: 0})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidArgument))
}

func TestAcquire_RejectsEmptyKey(t *testing.T) {
	orch := newTestOrchestrator(t, 10, 60)

	_, err := orch.Acquire(context.Background(), acquire.Request{Key: "", Tokens: 1})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidArgument))
}

func TestAcquire_RequestAloneExceedingMaxDenies(t *testing.T) {
	orch := newTestOrchestrator(t, 10, 60)

	resp, err := orch.Acquire(context.Background(), acquire.Request{Key: uuid.NewString(), Tokens: 11})
	require.NoError(t, err)
	assert.False(t, resp.Allowed)
}

func TestAcquire_FiveConcurrentAcquiresOnFreshKeyAllAdmit(t *testing.T) {
	orch := newTestOrchestrator(t, 10, 60)
	key := uuid.NewString()

	type result struct {
		resp acquire.Response
		err  error
	}
	results := make(chan result, 5)

	for i := 0; i < 5; i++ {
		go func() {
			resp, err := orch.Acquire(context.Background(), acquire.Request{Key: key, Tokens: 2})
			results <- result{resp, err}
		}()
	}

	admitted := 0
	for i := 0; i < 5; i++ {
		r := <-results
		require.NoError(t, r.err)
		if r.resp.Allowed {
			admitted++
		}
	}

	assert.Equal(t, 5, admitted)
}
