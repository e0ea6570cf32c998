package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

var (
	_ ports.OrderService   = (*FakeOrderService)(nil)
	_ ports.CatalogService = (*FakeOrderService)(nil)
)

// FakeOrderService is an in-memory catalog and order service for offline use.
// It checks orders the way the real service does but keeps nothing on disk.
type FakeOrderService struct {
	mu       sync.Mutex
	products map[string]entity.Product
	order    []entity.Product
	orders   map[string]entity.OrderRequest
}

// NewFakeOrderService serves the given products.
func NewFakeOrderService(products []entity.Product) *FakeOrderService {
	f := &FakeOrderService{
		products: make(map[string]entity.Product, len(products)),
		orders:   make(map[string]entity.OrderRequest),
	}
	for _, p := range products {
		f.products[p.ID] = p
		f.order = append(f.order, p)
	}
	return f
}

func (f *FakeOrderService) FetchProducts(ctx context.Context) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Product, len(f.order))
	copy(out, f.order)
	return out, nil
}

func (f *FakeOrderService) SendOrder(ctx context.Context, order entity.OrderRequest) (*entity.OrderResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(order.Items) == 0 {
		return nil, fmt.Errorf("order has no items")
	}
	total := 0.0
	for _, id := range order.Items {
		p, ok := f.products[id]
		if !ok {
			return nil, fmt.Errorf("product %s not found", id)
		}
		if !p.Purchasable() {
			return nil, fmt.Errorf("product %s is not for sale", id)
		}
		total += *p.Price
	}
	if total != order.Total {
		return nil, fmt.Errorf("order total mismatch: expected %v, got %v", total, order.Total)
	}

	id := uuid.NewString()
	f.orders[id] = order
	return &entity.OrderResponse{ID: id, Total: total}, nil
}
