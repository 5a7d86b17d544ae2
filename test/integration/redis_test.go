//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/rellink/internal/cache"
)

func TestRedisCacheRoundTrip(t *testing.T) {
	_ = godotenv.Load("../../.env")
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("Skipping integration test: REDIS_ADDR not set")
	}
	ctx := context.Background()

	rdb, err := cache.NewRedisClient(ctx, addr)
	require.NoError(t, err)
	defer rdb.Close()

	key := "rellink:test:" + uuid.NewString()
	t.Cleanup(func() { rdb.Del(context.Background(), key) })

	store := cache.NewRedisStore[bool](rdb, key)
	c, err := cache.New[bool](ctx, "validation", store, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	require.NoError(t, c.Put(ctx, "ASK WHERE { a }", true))
	require.NoError(t, c.Put(ctx, "ASK WHERE { b }", false))

	reloaded, err := cache.New[bool](ctx, "validation", store, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Len())

	v, ok := reloaded.Get("ASK WHERE { a }")
	assert.True(t, ok)
	assert.True(t, v)
	v, ok = reloaded.Get("ASK WHERE { b }")
	assert.True(t, ok)
	assert.False(t, v)
}
