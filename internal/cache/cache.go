package cache

import (
	"context"
	"time"

	"essence/storefront/internal/domain"
)

// ResponseCache stores chatbot replies for deterministic (non-quiz) turns.
type ResponseCache interface {
	Get(ctx context.Context, key string) (*domain.ChatResponse, bool, error)
	Set(ctx context.Context, key string, value *domain.ChatResponse, ttl time.Duration) error
}

type NoopResponseCache struct{}

func (NoopResponseCache) Get(_ context.Context, _ string) (*domain.ChatResponse, bool, error) {
	return nil, false, nil
}

func (NoopResponseCache) Set(_ context.Context, _ string, _ *domain.ChatResponse, _ time.Duration) error {
	return nil
}
