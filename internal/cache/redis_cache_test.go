package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essence/storefront/internal/domain"
)

func TestNoopCacheNeverHits(t *testing.T) {
	ctx := context.Background()
	c := NoopResponseCache{}

	require.NoError(t, c.Set(ctx, "k", &domain.ChatResponse{Response: "hi"}, time.Minute))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRedisResponseCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("ESSENCE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set ESSENCE_TEST_REDIS_ADDR to run redis integration test")
	}

	client := NewRedisClient(addr, "", 0)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	c := NewRedisResponseCache(client)
	key := fmt.Sprintf("essence:test:chat:%d", time.Now().UnixNano())
	t.Cleanup(func() { _ = client.Del(ctx, key).Err() })

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	want := &domain.ChatResponse{Response: "Try these", Suggestions: []domain.Product{{ID: "prd-001"}}}
	require.NoError(t, c.Set(ctx, key, want, time.Minute))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Response, got.Response)
	require.Len(t, got.Suggestions, 1)
	assert.Equal(t, "prd-001", got.Suggestions[0].ID)
}
