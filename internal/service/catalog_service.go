package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/minishop/internal/models"
	"github.com/mmynk/minishop/pkg/shopapi"
)

// ProductCatalog is the read side of the catalog.
type ProductCatalog interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

var _ shopapi.CatalogServiceHandler = (*CatalogService)(nil)

// CatalogService implements the CatalogService RPC interface. It needs no
// authentication.
type CatalogService struct {
	catalog ProductCatalog
	logger  *slog.Logger
}

func NewCatalogService(catalog ProductCatalog, logger *slog.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, logger: logger}
}

func (s *CatalogService) ListProducts(ctx context.Context, req *connect.Request[shopapi.ListProductsRequest]) (*connect.Response[shopapi.ListProductsResponse], error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*shopapi.Product, 0, len(products))
	for _, p := range products {
		out = append(out, toAPIProduct(p))
	}
	return connect.NewResponse(&shopapi.ListProductsResponse{Products: out}), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, req *connect.Request[shopapi.GetProductRequest]) (*connect.Response[shopapi.GetProductResponse], error) {
	if req.Msg.ID == "" {
		return nil, missingField("id")
	}

	product, err := s.catalog.GetProduct(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&shopapi.GetProductResponse{Product: toAPIProduct(product)}), nil
}
