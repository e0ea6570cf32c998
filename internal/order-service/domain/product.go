package domain

// Product is a catalog entry. Products without a price cannot be ordered.
type Product struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Image       string   `yaml:"image"`
	Price       *float64 `yaml:"price"`
}
