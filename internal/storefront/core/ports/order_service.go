package ports

import (
	"context"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

// OrderService accepts assembled orders.
type OrderService interface {
	SendOrder(ctx context.Context, order entity.OrderRequest) (*entity.OrderResponse, error)
}

// CatalogService lists the products available for sale.
type CatalogService interface {
	FetchProducts(ctx context.Context) ([]entity.Product, error)
}
