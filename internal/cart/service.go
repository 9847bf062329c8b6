// Package cart implements the shopping cart rules: one line per (user,
// product), quantity merging on repeated adds, owner-only removal and
// clear-on-checkout.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/mmynk/minishop/internal/calculator"
	"github.com/mmynk/minishop/internal/metrics"
	"github.com/mmynk/minishop/internal/models"
	"github.com/mmynk/minishop/internal/storage"
)

// ErrInvalidQuantity is returned when an add asks for zero or fewer units.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// PrincipalResolver maps an authenticated username to its User.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, username string) (*models.User, error)
}

// ProductReader is the part of the catalog the cart needs.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// Service enforces the cart invariants on top of a storage.CartStore.
type Service struct {
	identity PrincipalResolver
	products ProductReader
	items    storage.CartStore
	metrics  *metrics.Metrics
}

// NewService creates a cart service. m may be nil.
func NewService(identity PrincipalResolver, products ProductReader, items storage.CartStore, m *metrics.Metrics) *Service {
	return &Service{
		identity: identity,
		products: products,
		items:    items,
		metrics:  m,
	}
}

// AddToCart puts quantity units of a product in the user's cart. If the user
// already has a line for the product, the quantities are summed.
func (s *Service) AddToCart(ctx context.Context, username, productID string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	user, err := s.identity.ResolvePrincipal(ctx, username)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.FindCartItem(ctx, user.ID, product.ID)
	switch {
	case err == nil:
		if item.Quantity > math.MaxInt-quantity {
			return nil, fmt.Errorf("%w: line already holds %d", ErrInvalidQuantity, item.Quantity)
		}
		item.Quantity += quantity
	case errors.Is(err, storage.ErrNotFound):
		item = &models.CartItem{
			UserID:    user.ID,
			ProductID: product.ID,
			Quantity:  quantity,
		}
	default:
		return nil, err
	}

	if err := s.items.SaveCartItem(ctx, item); err != nil {
		return nil, err
	}

	s.metrics.ItemsAdded(quantity)
	slog.Debug("Added to cart",
		"username", username,
		"product_id", product.ID,
		"added", quantity,
		"quantity", item.Quantity,
	)
	return item, nil
}

// GetCartItems returns the user's lines with products resolved and
// subtotals filled in. A user with no items gets an empty slice.
func (s *Service) GetCartItems(ctx context.Context, username string) ([]models.CartLine, error) {
	cart, err := s.GetCart(ctx, username)
	if err != nil {
		return nil, err
	}
	return cart.Lines, nil
}

// GetCart returns the user's lines together with the cart total.
func (s *Service) GetCart(ctx context.Context, username string) (*models.Cart, error) {
	user, err := s.identity.ResolvePrincipal(ctx, username)
	if err != nil {
		return nil, err
	}

	lines, err := s.items.ListCartLines(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []models.CartLine{}
	}

	total, err := calculator.PriceLines(lines)
	if err != nil {
		return nil, err
	}

	return &models.Cart{
		Username: user.Username,
		Lines:    lines,
		Total:    total,
	}, nil
}

// RemoveCartItem deletes one line. The line must belong to username; a line
// owned by someone else is reported as not found so its existence is not
// revealed.
func (s *Service) RemoveCartItem(ctx context.Context, username, itemID string) error {
	user, err := s.identity.ResolvePrincipal(ctx, username)
	if err != nil {
		return err
	}

	item, err := s.items.GetCartItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != user.ID {
		slog.Warn("Refused to remove another user's cart item",
			"username", username,
			"item_id", itemID,
		)
		return fmt.Errorf("cart item %s: %w", itemID, storage.ErrNotFound)
	}

	return s.items.DeleteCartItem(ctx, item.ID)
}

// ClearCart removes every line in the user's cart. This is the whole of
// checkout: no order is recorded, nothing is charged and stock is untouched.
func (s *Service) ClearCart(ctx context.Context, username string) (int64, error) {
	user, err := s.identity.ResolvePrincipal(ctx, username)
	if err != nil {
		return 0, err
	}

	n, err := s.items.DeleteCartItemsByUser(ctx, user.ID)
	if err != nil {
		return 0, err
	}

	s.metrics.Checkout()
	slog.Info("Cart cleared", "username", username, "removed", n)
	return n, nil
}
