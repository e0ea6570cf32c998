package entity

// Product is a catalog entry. A nil Price means the product cannot be bought.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Image       string   `json:"image" yaml:"image"`
	Price       *float64 `json:"price" yaml:"price"`
}

// Purchasable reports whether the product carries a price.
func (p Product) Purchasable() bool {
	return p.Price != nil
}

// PriceOrZero returns the price, or 0 for priceless products.
func (p Product) PriceOrZero() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

// ProductList is the body returned by the catalog endpoint.
type ProductList struct {
	Total int       `json:"total"`
	Items []Product `json:"items"`
}

// Price is a convenience for building products in code.
func Price(v float64) *float64 {
	return &v
}
