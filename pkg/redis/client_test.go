package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educateagirl/storefront-api/pkg/config"
	"github.com/educateagirl/storefront-api/pkg/logger"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client, err := New(context.Background(), config.RedisConfig{URL: "redis://" + srv.Addr() + "/0", PoolSize: 2}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, srv
}

func TestFixedWindowAllow(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		allowed, count, err := client.FixedWindowAllow(ctx, "messages:203.0.113.9", 2, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(i), count)
		assert.Equal(t, i <= 2, allowed, "call %d", i)
	}
	assert.Equal(t, time.Minute, srv.TTL("eag:rate_limit:messages:203.0.113.9"))

	srv.FastForward(time.Minute)
	allowed, count, err := client.FixedWindowAllow(ctx, "messages:203.0.113.9", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(1), count)
}

func TestFixedWindowScopesAreIndependent(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	allowed, _, err := client.FixedWindowAllow(ctx, "reviews:a", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, err = client.FixedWindowAllow(ctx, "reviews:b", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "eag:idempotency:scope:id", client.IdempotencyKey("scope", "id"))
	assert.Equal(t, "eag:rate_limit:scope", client.RateLimitKey("scope"))
	assert.Equal(t, "eag:idempotency:scope", client.IdempotencyKey("scope", ""))
}

func TestIdempotencyRecordLifecycle(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()
	key := client.IdempotencyKey("POST|/api/orders", "abc")

	stored, err := client.SetNX(ctx, key, "first", time.Hour)
	require.NoError(t, err)
	require.True(t, stored)

	stored, err = client.SetNX(ctx, key, "second", time.Hour)
	require.NoError(t, err)
	require.False(t, stored)

	value, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "first", value)
	assert.Equal(t, time.Hour, srv.TTL(key))

	require.NoError(t, client.Del(ctx, key))
	_, err = client.Get(ctx, key)
	assert.True(t, errors.Is(err, redis.Nil), "expected redis.Nil, got %v", err)
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	assert.ErrorIs(t, client.Ping(context.Background()), errNotInitialized)
	_, _, err := client.FixedWindowAllow(context.Background(), "scope", 1, time.Second)
	assert.ErrorIs(t, err, errNotInitialized)
	assert.NoError(t, client.Close())

	var nilClient *Client
	assert.NoError(t, nilClient.Close())
}

func TestPingAfterServerStops(t *testing.T) {
	client, srv := newTestClient(t)
	require.NoError(t, client.Ping(context.Background()))
	srv.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewRequiresAddress(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{}, nil)
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		Address:      "localhost:6379",
		DB:           3,
		PoolSize:     7,
		MinIdleConns: 1,
		DialTimeout:  2 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, 1, opts.MinIdleConns)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)

	opts, err = optionsFromConfig(config.RedisConfig{URL: "redis://:pw@cache:6380/2", DB: 5, PoolSize: 4})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB, "db from url wins")
	assert.Equal(t, 4, opts.PoolSize)

	_, err = optionsFromConfig(config.RedisConfig{URL: "mysql://nope"})
	assert.Error(t, err)
}
