// Package calculator computes cart prices on exact decimals.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/minishop/internal/models"
)

// LineSubtotal returns price x quantity.
func LineSubtotal(price decimal.Decimal, quantity int) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("price cannot be negative: %s", price)
	}
	return price.Mul(decimal.NewFromInt(int64(quantity))), nil
}

// PriceLines fills in Subtotal on every line and returns the cart total.
// Based on: total = sum(product.price × item.quantity)
func PriceLines(lines []models.CartLine) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range lines {
		sub, err := LineSubtotal(lines[i].Product.Price, lines[i].Item.Quantity)
		if err != nil {
			return decimal.Zero, fmt.Errorf("line %s: %w", lines[i].Item.ID, err)
		}
		lines[i].Subtotal = sub
		total = total.Add(sub)
	}
	return total, nil
}
