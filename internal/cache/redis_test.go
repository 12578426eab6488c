package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisStore_PutGet(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, "sess-1", time.Hour, nil)

	require.NoError(t, store.Put(ctx, "k", map[string]string{"fact": "x"}))
	assert.True(t, mr.Exists("sciencegpt:cache:sess-1:k"))

	e, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	var got map[string]string
	require.NoError(t, e.Decode(&got))
	assert.Equal(t, "x", got["fact"])

	_, ok, err = store.Get(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_IsValidBoundary(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	clock := newClock()
	store := NewRedisStore(client, "sess-1", 48*time.Hour, clock.Now)

	require.NoError(t, store.Put(ctx, "fact", "v"))

	clock.Advance(23*time.Hour + 59*time.Minute)
	valid, err := store.IsValid(ctx, "fact", 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, valid)

	clock.Advance(2 * time.Minute)
	valid, err = store.IsValid(ctx, "fact", 24*time.Hour)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestRedisStore_InvalidateAllIsScoped(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	mine := NewRedisStore(client, "mine", time.Hour, nil)
	theirs := NewRedisStore(client, "theirs", time.Hour, nil)

	require.NoError(t, mine.Put(ctx, "a", 1))
	require.NoError(t, mine.Put(ctx, "b", 2))
	require.NoError(t, theirs.Put(ctx, "a", 3))

	require.NoError(t, mine.InvalidateAll(ctx))

	assert.False(t, mr.Exists("sciencegpt:cache:mine:a"))
	assert.False(t, mr.Exists("sciencegpt:cache:mine:b"))
	assert.True(t, mr.Exists("sciencegpt:cache:theirs:a"))
}

func TestRedisStore_Invalidate(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	store := NewRedisStore(client, "s", time.Hour, nil)

	require.NoError(t, store.Put(ctx, "a", 1))
	require.NoError(t, store.Invalidate(ctx, "a"))

	_, ok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_RetentionExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, "s", time.Minute, nil)

	require.NoError(t, store.Put(ctx, "a", 1))
	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_GetCorruptEntry(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, "s", time.Hour, nil)

	require.NoError(t, mr.Set("sciencegpt:cache:s:bad", "not json"))
	_, _, err := store.Get(ctx, "bad")
	assert.Error(t, err)
}
