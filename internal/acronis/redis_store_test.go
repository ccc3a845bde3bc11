package acronis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestRedisTokenStore_RoundTrip(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	key := "clinicguard:test:token:" + t.Name()
	t.Cleanup(func() { rdb.Del(ctx, key) })

	store := NewRedisTokenStore(rdb, key)

	tok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, tok)

	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, &Token{AccessToken: "abc", IssuedAt: issued, TTL: time.Minute}))

	tok, err = store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "abc", tok.AccessToken)
	assert.True(t, issued.Equal(tok.IssuedAt))
	assert.Equal(t, time.Minute, tok.TTL)

	ttl, err := rdb.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestNewRedisTokenStore_DefaultKey(t *testing.T) {
	store := NewRedisTokenStore(nil, "")
	assert.Equal(t, DefaultTokenKey, store.key)
}
