package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/minishop/internal/auth"
	"github.com/mmynk/minishop/internal/middleware"
	"github.com/mmynk/minishop/internal/models"
	"github.com/mmynk/minishop/pkg/shopapi"
)

// CartOperations is the cart domain surface exposed over RPC.
type CartOperations interface {
	AddToCart(ctx context.Context, username, productID string, quantity int) (*models.CartItem, error)
	GetCart(ctx context.Context, username string) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, username, itemID string) error
	ClearCart(ctx context.Context, username string) (int64, error)
}

var _ shopapi.CartServiceHandler = (*CartService)(nil)

// CartService implements the CartService RPC interface. Every method acts on
// the caller's own cart; the handler must run behind RequireAuth.
type CartService struct {
	carts  CartOperations
	logger *slog.Logger
}

func NewCartService(carts CartOperations, logger *slog.Logger) *CartService {
	return &CartService{carts: carts, logger: logger}
}

func principal(ctx context.Context) (string, error) {
	username := middleware.GetUsername(ctx)
	if username == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return username, nil
}

func (s *CartService) AddItem(ctx context.Context, req *connect.Request[shopapi.AddItemRequest]) (*connect.Response[shopapi.AddItemResponse], error) {
	username, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.ProductID == "" {
		return nil, missingField("product_id")
	}

	quantity := req.Msg.Quantity
	if quantity == 0 {
		quantity = 1
	}

	item, err := s.carts.AddToCart(ctx, username, req.Msg.ProductID, quantity)
	if err != nil {
		s.logger.Warn("AddItem failed", "username", username, "product_id", req.Msg.ProductID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&shopapi.AddItemResponse{
		ItemID:   item.ID,
		Quantity: item.Quantity,
	}), nil
}

func (s *CartService) GetCart(ctx context.Context, req *connect.Request[shopapi.GetCartRequest]) (*connect.Response[shopapi.GetCartResponse], error) {
	username, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, username)
	if err != nil {
		s.logger.Error("GetCart failed", "username", username, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(toAPICart(cart)), nil
}

func (s *CartService) RemoveItem(ctx context.Context, req *connect.Request[shopapi.RemoveItemRequest]) (*connect.Response[shopapi.RemoveItemResponse], error) {
	username, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.ItemID == "" {
		return nil, missingField("item_id")
	}

	if err := s.carts.RemoveCartItem(ctx, username, req.Msg.ItemID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&shopapi.RemoveItemResponse{}), nil
}

// Checkout empties the caller's cart. Nothing else happens.
func (s *CartService) Checkout(ctx context.Context, req *connect.Request[shopapi.CheckoutRequest]) (*connect.Response[shopapi.CheckoutResponse], error) {
	username, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.carts.ClearCart(ctx, username)
	if err != nil {
		s.logger.Error("Checkout failed", "username", username, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&shopapi.CheckoutResponse{ItemsCleared: n}), nil
}
