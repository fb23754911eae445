package service

import (
	"context"

	"essence/storefront/internal/domain"
	"essence/storefront/internal/validate"
)

// Chat answers one chatbot turn against the full catalog.
func (s *Service) Chat(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	if err := validate.Struct(req); err != nil {
		return domain.ChatResponse{}, err
	}

	catalog, err := s.repo.ListProducts(ctx, domain.ProductFilter{})
	if err != nil {
		return domain.ChatResponse{}, err
	}
	return s.recommender.Respond(ctx, req, catalog), nil
}
