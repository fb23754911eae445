// Package redisstore keeps shopping carts in Redis, one JSON document per
// customer key with a sliding expiry.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"essence/storefront/internal/domain"
)

const keyPrefix = "essence:cart:"

type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &CartStore{client: client, ttl: ttl}
}

func cartKey(customerID string) string {
	return keyPrefix + customerID
}

func (s *CartStore) GetCart(ctx context.Context, customerID string) (*domain.Cart, error) {
	val, err := s.client.Get(ctx, cartKey(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NotFoundf("cart for customer %s", customerID)
	}
	if err != nil {
		return nil, err
	}

	var cart domain.Cart
	if err := json.Unmarshal(val, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartStore) SaveCart(ctx context.Context, cart domain.Cart) error {
	if cart.UpdatedAt.IsZero() {
		cart.UpdatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(cart.CustomerID), payload, s.ttl).Err()
}

func (s *CartStore) DeleteCart(ctx context.Context, customerID string) error {
	return s.client.Del(ctx, cartKey(customerID)).Err()
}
