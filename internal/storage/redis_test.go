package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisKV(t *testing.T) *RedisKV {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisKV(client)
}

func TestRedisKV_GetMissingKey(t *testing.T) {
	kv := newTestRedisKV(t)

	value, ok, err := kv.Get(context.Background(), KeyProducts)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestRedisKV_SetThenGet(t *testing.T) {
	ctx := context.Background()
	kv := newTestRedisKV(t)

	require.NoError(t, kv.Set(ctx, KeyIngredients, `[{"name":"Basil"}]`))

	value, ok, err := kv.Get(ctx, KeyIngredients)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"name":"Basil"}]`, value)
}

func TestRedisKV_Overwrite(t *testing.T) {
	ctx := context.Background()
	kv := newTestRedisKV(t)

	require.NoError(t, kv.Set(ctx, KeySales, "[]"))
	require.NoError(t, kv.Set(ctx, KeySales, `[{"id":"SALE-1"}]`))

	value, ok, err := kv.Get(ctx, KeySales)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"SALE-1"}]`, value)
}
