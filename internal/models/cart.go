package models

import "github.com/shopspring/decimal"

// CartItem is one line of a user's cart.
// There is at most one CartItem per (UserID, ProductID) pair; the cart
// service enforces this before inserting.
type CartItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// UserID references the owning User.
	UserID string

	// ProductID references the Product in the cart.
	ProductID string

	// Quantity is always positive.
	Quantity int

	CreatedAt int64
	UpdatedAt int64
}

// CartLine is a CartItem joined with its Product, plus the computed subtotal
// (Product.Price x Item.Quantity).
type CartLine struct {
	Item     CartItem
	Product  Product
	Subtotal decimal.Decimal
}

// Cart is a user's full cart view.
type Cart struct {
	Username string
	Lines    []CartLine
	Total    decimal.Decimal
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Item.Quantity
	}
	return n
}
