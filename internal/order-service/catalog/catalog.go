// Package catalog loads the product list served by the order service.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/jcmexdev/storefront/internal/order-service/domain"
	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var defaultProducts []byte

// Catalog is an immutable, ordered product list with lookup by id.
type Catalog struct {
	items []domain.Product
	byID  map[string]domain.Product
}

// New indexes products. Duplicate or empty ids are rejected.
func New(products []domain.Product) (*Catalog, error) {
	c := &Catalog{
		items: make([]domain.Product, 0, len(products)),
		byID:  make(map[string]domain.Product, len(products)),
	}
	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog: product %q has no id", p.Title)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %s", p.ID)
		}
		if p.Price != nil && *p.Price < 0 {
			return nil, fmt.Errorf("catalog: product %s has a negative price", p.ID)
		}
		c.items = append(c.items, p)
		c.byID[p.ID] = p
	}
	return c, nil
}

// Load reads a YAML product list from path, or the built-in list when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultProducts
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", path, err)
		}
	}

	var products []domain.Product
	if err := yaml.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	return New(products)
}

func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Product(id string) (domain.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return p, nil
}
