package model

import "github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"

// Cart keeps the products the buyer intends to purchase in insertion order.
// Product ids are unique. Price checks belong to the caller.
type Cart struct {
	items []entity.Product
}

func NewCart() *Cart {
	return &Cart{}
}

// Items returns a copy of the cart contents.
func (c *Cart) Items() []entity.Product {
	out := make([]entity.Product, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) HasItem(productID string) bool {
	for _, it := range c.items {
		if it.ID == productID {
			return true
		}
	}
	return false
}

// AddItem appends the product unless one with the same id is already present.
func (c *Cart) AddItem(p entity.Product) {
	if c.HasItem(p.ID) {
		return
	}
	c.items = append(c.items, p)
}

// RemoveItem drops the product with the given id. Unknown ids are ignored.
func (c *Cart) RemoveItem(productID string) {
	kept := c.items[:0]
	for _, it := range c.items {
		if it.ID != productID {
			kept = append(kept, it)
		}
	}
	// release references held by the tail
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = entity.Product{}
	}
	c.items = kept
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) Count() int {
	return len(c.items)
}

// Total sums item prices. A priceless entry contributes 0.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += it.PriceOrZero()
	}
	return total
}

// IDs returns the product ids in cart order.
func (c *Cart) IDs() []string {
	ids := make([]string, len(c.items))
	for i, it := range c.items {
		ids[i] = it.ID
	}
	return ids
}
