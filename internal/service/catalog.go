package service

import (
	"context"
	"strings"

	"essence/storefront/internal/domain"
)

func (s *Service) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	filter.Category = strings.ToLower(strings.TrimSpace(filter.Category))
	filter.Query = strings.TrimSpace(filter.Query)

	if filter.Category != "" && !domain.IsValidCategory(filter.Category) {
		return nil, domain.Validationf("unknown category %q", filter.Category)
	}
	if filter.Sort != "" && !domain.IsValidProductSort(filter.Sort) {
		return nil, domain.Validationf("unknown sort %q", filter.Sort)
	}
	if filter.MinPriceCents < 0 || filter.MaxPriceCents < 0 {
		return nil, domain.Validationf("price bounds must be non-negative")
	}
	if filter.MaxPriceCents > 0 && filter.MinPriceCents > filter.MaxPriceCents {
		return nil, domain.Validationf("min_price must not exceed max_price")
	}

	return s.repo.ListProducts(ctx, filter)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.Validationf("product id is required")
	}
	return s.repo.GetProduct(ctx, id)
}
