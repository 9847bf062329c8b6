// Package catalog serves the read-mostly product catalog and seeds it on
// first start.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/minishop/internal/models"
	"github.com/mmynk/minishop/internal/storage"
)

type Service struct {
	store storage.ProductStore
}

func NewService(store storage.ProductStore) *Service {
	return &Service{store: store}
}

// ListProducts returns the whole catalog. There is no paging or filtering.
func (s *Service) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return s.store.ListProducts(ctx)
}

// GetProduct returns an error wrapping storage.ErrNotFound for unknown IDs.
func (s *Service) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.store.GetProduct(ctx, id)
}

// Seed inserts products only if the catalog is empty, so restarts do not
// duplicate entries. It reports how many products were inserted.
func (s *Service) Seed(ctx context.Context, products []models.Product) (int, error) {
	n, err := s.store.CountProducts(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Debug("Catalog already seeded", "products", n)
		return 0, nil
	}

	for i := range products {
		p := products[i]
		if err := s.store.CreateProduct(ctx, &p); err != nil {
			return i, fmt.Errorf("failed to seed product %q: %w", p.Name, err)
		}
	}

	slog.Info("Catalog seeded", "products", len(products))
	return len(products), nil
}
