package redisstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essence/storefront/internal/domain"
)

func TestCartKeyIsNamespaced(t *testing.T) {
	assert.Equal(t, "essence:cart:cus-001", cartKey("cus-001"))
}

func TestCartStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("ESSENCE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set ESSENCE_TEST_REDIS_ADDR to run redis integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	s := NewCartStore(client, time.Minute)
	customerID := fmt.Sprintf("cus-it-%d", time.Now().UnixNano())
	t.Cleanup(func() { _ = s.DeleteCart(ctx, customerID) })

	_, err := s.GetCart(ctx, customerID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	cart := domain.Cart{CustomerID: customerID, Items: []domain.CartItem{{ID: "l1", Product: domain.Product{ID: "prd-002"}, Quantity: 2}}}
	require.NoError(t, s.SaveCart(ctx, cart))

	stored, err := s.GetCart(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)

	ttl, err := client.TTL(ctx, cartKey(customerID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, s.DeleteCart(ctx, customerID))
	_, err = s.GetCart(ctx, customerID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
