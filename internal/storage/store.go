// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/minishop/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned (wrapped) when a write violates a uniqueness rule.
	ErrConflict = errors.New("already exists")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user. The user.ID and CreatedAt fields are
	// populated by the store if empty.
	// Returns ErrConflict if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername returns ErrNotFound if no user has that username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// DeleteUser removes a user and, through the owning relation, all of the
	// user's cart items.
	DeleteUser(ctx context.Context, id string) error
}

// ProductStore persists the product catalog.
type ProductStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error

	// GetProduct returns ErrNotFound if the product does not exist.
	GetProduct(ctx context.Context, id string) (*models.Product, error)

	// ListProducts returns every product ordered by name.
	ListProducts(ctx context.Context) ([]*models.Product, error)

	CountProducts(ctx context.Context) (int, error)
}

// CartStore persists cart line items.
type CartStore interface {
	// GetCartItem returns ErrNotFound if the item does not exist.
	GetCartItem(ctx context.Context, id string) (*models.CartItem, error)

	// FindCartItem looks up the item for a (user, product) pair.
	// Returns ErrNotFound if the user has no such item.
	FindCartItem(ctx context.Context, userID, productID string) (*models.CartItem, error)

	// SaveCartItem inserts the item when item.ID is empty and updates its
	// quantity otherwise.
	SaveCartItem(ctx context.Context, item *models.CartItem) error

	// ListCartLines returns the user's items joined with their products, in
	// insertion order. Subtotals are left zero.
	ListCartLines(ctx context.Context, userID string) ([]models.CartLine, error)

	// DeleteCartItem returns ErrNotFound if the item does not exist.
	DeleteCartItem(ctx context.Context, id string) error

	// DeleteCartItemsByUser removes all of a user's items and reports how
	// many were removed.
	DeleteCartItemsByUser(ctx context.Context, userID string) (int64, error)
}

// Store is the full persistence surface used by the server.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL via
// GORM) without changing the service layer.
type Store interface {
	UserStore
	ProductStore
	CartStore

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
