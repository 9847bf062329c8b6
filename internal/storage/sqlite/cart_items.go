package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/minishop/internal/models"
	"github.com/mmynk/minishop/internal/storage"
)

const cartItemColumns = `id, user_id, product_id, quantity, created_at, updated_at`

// GetCartItem retrieves a cart item by ID.
func (s *SQLiteStore) GetCartItem(ctx context.Context, id string) (*models.CartItem, error) {
	item, err := scanCartItem(s.db.QueryRowContext(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE id = ?`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cart item %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return item, nil
}

// FindCartItem retrieves the item a user holds for a product.
// With no storage-level uniqueness, the oldest row wins if duplicates exist.
func (s *SQLiteStore) FindCartItem(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	item, err := scanCartItem(s.db.QueryRowContext(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items
		 WHERE user_id = ? AND product_id = ?
		 ORDER BY created_at, rowid LIMIT 1`,
		userID, productID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cart item for product %s: %w", productID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}
	return item, nil
}

// SaveCartItem inserts a new item or updates the quantity of an existing one.
func (s *SQLiteStore) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	now := time.Now().Unix()

	if item.ID == "" {
		item.ID = uuid.New().String()
		item.CreatedAt = now
		item.UpdatedAt = now

		_, err := s.db.ExecContext(ctx,
			`INSERT INTO cart_items (`+cartItemColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			item.ID, item.UserID, item.ProductID, item.Quantity, item.CreatedAt, item.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert cart item: %w", err)
		}
		return nil
	}

	item.UpdatedAt = now
	res, err := s.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = ?, updated_at = ? WHERE id = ?",
		item.Quantity, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("cart item %s: %w", item.ID, storage.ErrNotFound)
	}
	return nil
}

// ListCartLines retrieves a user's items joined with their products.
func (s *SQLiteStore) ListCartLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.user_id, c.product_id, c.quantity, c.created_at, c.updated_at,
		        p.id, p.name, p.description, p.price, p.image_url, p.created_at
		 FROM cart_items c
		 JOIN products p ON p.id = c.product_id
		 WHERE c.user_id = ?
		 ORDER BY c.created_at, c.rowid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		var line models.CartLine
		it, p := &line.Item, &line.Product
		if err := rows.Scan(
			&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart lines: %w", err)
	}

	return lines, nil
}

// DeleteCartItem removes a cart item by ID.
func (s *SQLiteStore) DeleteCartItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("cart item %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// DeleteCartItemsByUser empties a user's cart.
func (s *SQLiteStore) DeleteCartItemsByUser(ctx context.Context, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}
	return n, nil
}

func scanCartItem(row *sql.Row) (*models.CartItem, error) {
	item := &models.CartItem{}
	if err := row.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return item, nil
}
