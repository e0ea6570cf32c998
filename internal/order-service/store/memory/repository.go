// Package memory keeps orders in a map. It backs the order service when no
// database is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jcmexdev/storefront/internal/order-service/domain"
)

type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewRepository() *Repository {
	return &Repository{orders: make(map[string]*domain.Order)}
}

func (r *Repository) Save(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("memory: order %s already exists", order.ID)
	}
	r.orders[order.ID] = clone(order)
	return nil
}

func (r *Repository) Get(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	return clone(order), nil
}

func clone(o *domain.Order) *domain.Order {
	c := *o
	c.Items = append([]string(nil), o.Items...)
	return &c
}
