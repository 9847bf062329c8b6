package catalog

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/minishop/internal/models"
)

// seedFile is the YAML layout accepted by LoadSeedFile:
//
//	products:
//	  - name: Notebook
//	    description: A5, dotted
//	    price: "3.50"
//	    image_url: /static/notebook.jpg
type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	ImageURL    string `yaml:"image_url"`
}

// LoadSeedFile reads a product list from a YAML file.
func LoadSeedFile(path string) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes the YAML seed format.
func ParseSeed(data []byte) ([]models.Product, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	products := make([]models.Product, 0, len(f.Products))
	for i, sp := range f.Products {
		if sp.Name == "" {
			return nil, fmt.Errorf("product %d: name is required", i+1)
		}
		price, err := decimal.NewFromString(sp.Price)
		if err != nil {
			return nil, fmt.Errorf("product %q: invalid price %q: %w", sp.Name, sp.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("product %q: price cannot be negative", sp.Name)
		}
		products = append(products, models.Product{
			Name:        sp.Name,
			Description: sp.Description,
			Price:       price,
			ImageURL:    sp.ImageURL,
		})
	}
	return products, nil
}

// DefaultProducts is the catalog used when no seed file is configured.
func DefaultProducts() []models.Product {
	return []models.Product{
		{Name: "Mechanical Keyboard", Description: "87-key, brown switches", Price: decimal.RequireFromString("89.00")},
		{Name: "Wireless Mouse", Description: "Rechargeable, 2.4 GHz", Price: decimal.RequireFromString("24.99")},
		{Name: "USB-C Hub", Description: "7 ports, 100 W passthrough", Price: decimal.RequireFromString("39.50")},
		{Name: "Monitor Stand", Description: "Bamboo, two shelves", Price: decimal.RequireFromString("45.00")},
		{Name: "Desk Mat", Description: "90 x 40 cm felt", Price: decimal.RequireFromString("19.95")},
	}
}
