package model

import "github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"

// Catalog holds the products on sale and the one currently previewed.
type Catalog struct {
	products []entity.Product
	selected *entity.Product
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

// SetProducts replaces the whole product list.
func (c *Catalog) SetProducts(products []entity.Product) {
	c.products = make([]entity.Product, len(products))
	copy(c.products, products)
}

func (c *Catalog) Products() []entity.Product {
	out := make([]entity.Product, len(c.products))
	copy(out, c.products)
	return out
}

// ProductByID looks a product up by id. The bool is false when it is absent.
func (c *Catalog) ProductByID(id string) (entity.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}

func (c *Catalog) SetSelected(p entity.Product) {
	c.selected = &p
}

func (c *Catalog) Selected() (entity.Product, bool) {
	if c.selected == nil {
		return entity.Product{}, false
	}
	return *c.selected, true
}

func (c *Catalog) ClearSelected() {
	c.selected = nil
}
