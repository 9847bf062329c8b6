package models

import "github.com/shopspring/decimal"

// Product is a catalog entry. Products are created by the seeder and are
// read-only from the cart's point of view.
type Product struct {
	// ID is the unique identifier for the product (UUID format).
	ID string

	Name        string
	Description string

	// Price is the unit price.
	Price decimal.Decimal

	// ImageURL is optional.
	ImageURL string

	// CreatedAt is the Unix timestamp when the product was added.
	CreatedAt int64
}
