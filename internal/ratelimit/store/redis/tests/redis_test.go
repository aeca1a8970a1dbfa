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

	"github.com/chris-alexander-pop/ratelimiter/internal/ratelimit/store"
	redisstore "github.com/chris-alexander-pop/ratelimiter/internal/ratelimit/store/redis"
)

func newTestStore(t *testing.T) (*redisstore.Store, func()) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})

	return redisstore.New(client), func() {
		client.Close()
		s.Close()
	}
}

func TestReadPrevious_UnwrittenWindowReadsZero(t *testing.T) {
	st, cleanup := newTestStore(t)
	defer cleanup()

	key := uuid.NewString()
	got, err := st.ReadPrevious(context.Background(), store.WindowKey{Key: key, Index: 5, Window: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), got)
}

func TestReadPrevious_NegativeIndexReadsZero(t *testing.T) {
	st, cleanup := newTestStore(t)
	defer cleanup()

	key := uuid.NewString()
	got, err := st.ReadPrevious(context.Background(), store.WindowKey{Key: key, Index: 0, Window: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), got)
}

func TestIncrementCurrent_ReturnsPreIncrementValue(t *testing.T) {
	st, cleanup := newTestStore(t)
	defer cleanup()

	ctx := context.Background()
	key := uuid.NewString()
	k := store.WindowKey{Key: key, Index: 3, Window: time.Minute}

	first, err := st.IncrementCurrent(ctx, k, 5)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), first)

	second, err := st.IncrementCurrent(ctx, k, 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), second)
}

func TestIncrementCurrent_BecomesNextReadPrevious(t *testing.T) {
	st, cleanup := newTestStore(t)
	defer cleanup()

	ctx := context.Background()
	key := uuid.NewString()

	_, err := st.IncrementCurrent(ctx, store.WindowKey{Key: key, Index: 7, Window: time.Minute}, 4)
	require.NoError(t, err)

	prev, err := st.ReadPrevious(ctx, store.WindowKey{Key: key, Index: 8, Window: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, uint32(4), prev)
}

func TestIncrementCurrent_ExpiresAfterTwoWindows(t *testing.T) {
	srv, err := miniredis.Run()
	require.NoError(t, err)
	defer srv.Close()

	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	defer client.Close()
	st := redisstore.New(client)

	ctx := context.Background()
	key := uuid.NewString()
	k := store.WindowKey{Key: key, Index: 1, Window: time.Second}

	_, err = st.IncrementCurrent(ctx, k, 1)
	require.NoError(t, err)

	srv.FastForward(3 * time.Second)

	prev, err := st.ReadPrevious(ctx, store.WindowKey{Key: key, Index: 2, Window: time.Second})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), prev)
}
