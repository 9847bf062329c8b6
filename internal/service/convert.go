package service

import (
	"github.com/mmynk/minishop/internal/models"
	"github.com/mmynk/minishop/pkg/shopapi"
)

func toAPIUser(u *models.User) *shopapi.User {
	return &shopapi.User{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
	}
}

func toAPIProduct(p *models.Product) *shopapi.Product {
	return &shopapi.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		ImageURL:    p.ImageURL,
	}
}

func toAPICart(c *models.Cart) *shopapi.GetCartResponse {
	lines := make([]*shopapi.CartLine, 0, len(c.Lines))
	for i := range c.Lines {
		l := &c.Lines[i]
		lines = append(lines, &shopapi.CartLine{
			ItemID:   l.Item.ID,
			Product:  *toAPIProduct(&l.Product),
			Quantity: l.Item.Quantity,
			Subtotal: l.Subtotal.StringFixed(2),
		})
	}
	return &shopapi.GetCartResponse{
		Lines:     lines,
		Total:     c.Total.StringFixed(2),
		ItemCount: c.ItemCount(),
	}
}
