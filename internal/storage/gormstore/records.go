package gormstore

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/minishop/internal/models"
)

// userRecord owns its cart items; deleting it cascades.
type userRecord struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FullName     string `gorm:"not null;default:''"`
	CreatedAt    int64  `gorm:"not null"`

	CartItems []cartItemRecord `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (userRecord) TableName() string { return "users" }

type productRecord struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	Name        string          `gorm:"index;not null"`
	Description string          `gorm:"not null;default:''"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ImageURL    string          `gorm:"not null;default:''"`
	CreatedAt   int64           `gorm:"not null"`
}

func (productRecord) TableName() string { return "products" }

type cartItemRecord struct {
	ID        string        `gorm:"primaryKey;type:varchar(36)"`
	UserID    string        `gorm:"type:varchar(36);index;not null"`
	ProductID string        `gorm:"type:varchar(36);not null"`
	Product   productRecord `gorm:"foreignKey:ProductID"`
	Quantity  int           `gorm:"not null"`
	CreatedAt int64         `gorm:"not null"`
	UpdatedAt int64         `gorm:"not null"`
}

func (cartItemRecord) TableName() string { return "cart_items" }

func (r *userRecord) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		FullName:     r.FullName,
		CreatedAt:    r.CreatedAt,
	}
}

func (r *productRecord) toModel() *models.Product {
	return &models.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		CreatedAt:   r.CreatedAt,
	}
}

func (r *cartItemRecord) toModel() *models.CartItem {
	return &models.CartItem{
		ID:        r.ID,
		UserID:    r.UserID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
