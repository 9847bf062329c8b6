package gormstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/minishop/internal/models"
	"github.com/mmynk/minishop/internal/storage"
)

func (s *Store) GetCartItem(ctx context.Context, id string) (*models.CartItem, error) {
	var rec cartItemRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, notFound(err, "cart item "+id)
	}
	return rec.toModel(), nil
}

func (s *Store) FindCartItem(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	var rec cartItemRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Order("created_at, id").
		First(&rec).
		Error
	if err != nil {
		return nil, notFound(err, "cart item for product "+productID)
	}
	return rec.toModel(), nil
}

func (s *Store) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	now := time.Now().Unix()

	if item.ID == "" {
		item.ID = uuid.New().String()
		item.CreatedAt = now
		item.UpdatedAt = now

		rec := cartItemRecord{
			ID:        item.ID,
			UserID:    item.UserID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		}
		if err := s.db.WithContext(ctx).Omit("Product").Create(&rec).Error; err != nil {
			return fmt.Errorf("failed to insert cart item: %w", err)
		}
		return nil
	}

	item.UpdatedAt = now
	res := s.db.WithContext(ctx).
		Model(&cartItemRecord{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{"quantity": item.Quantity, "updated_at": item.UpdatedAt})
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s: %w", item.ID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) ListCartLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	var recs []cartItemRecord
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&recs).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	lines := make([]models.CartLine, len(recs))
	for i := range recs {
		lines[i] = models.CartLine{
			Item:    *recs[i].toModel(),
			Product: *recs[i].Product.toModel(),
		}
	}
	return lines, nil
}

func (s *Store) DeleteCartItem(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&cartItemRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteCartItemsByUser(ctx context.Context, userID string) (int64, error) {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&cartItemRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", res.Error)
	}
	return res.RowsAffected, nil
}
