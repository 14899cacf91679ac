package services

import (
	"context"

	"github.com/rs/zerolog"

	"shopfront/internal/models"
	"shopfront/internal/store"
)

type CatalogService struct {
	store  store.Store
	logger zerolog.Logger
}

func NewCatalogService(store store.Store, logger zerolog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

// GetProduct checks the id exists before fetching. A storage fault from the
// existence check propagates instead of collapsing into "not found".
func (s *CatalogService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	exists, err := s.store.ProductExists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrProductNotFound
	}
	return s.store.GetProduct(ctx, id)
}

func (s *CatalogService) Search(ctx context.Context, phrase string) ([]int, error) {
	if phrase == "" {
		return nil, ErrMissingFields
	}
	return s.store.SearchProducts(ctx, phrase)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]string, error) {
	return s.store.ListCategories(ctx)
}
