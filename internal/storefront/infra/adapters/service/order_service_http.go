package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

var (
	_ ports.OrderService   = (*HTTPOrderService)(nil)
	_ ports.CatalogService = (*HTTPOrderService)(nil)
)

// HTTPOrderService is the adapter for the remote catalog and order endpoints.
type HTTPOrderService struct {
	client *Client
}

func NewHTTPOrderService(client *Client) *HTTPOrderService {
	return &HTTPOrderService{client: client}
}

// FetchProducts lists the catalog. A list without items is an empty catalog.
func (s *HTTPOrderService) FetchProducts(ctx context.Context) ([]entity.Product, error) {
	var list entity.ProductList
	if err := s.client.Get(ctx, "/product/", &list); err != nil {
		return nil, err
	}
	if list.Items == nil {
		return []entity.Product{}, nil
	}
	return list.Items, nil
}

// SendOrder posts the order. Every call carries an idempotency key; one is
// generated when ctx has none, so callers that retry must put theirs in ctx.
func (s *HTTPOrderService) SendOrder(ctx context.Context, order entity.OrderRequest) (*entity.OrderResponse, error) {
	if interceptors.IdempotencyKeyFromContext(ctx) == "" {
		ctx = interceptors.WithIdempotencyKey(ctx, uuid.NewString())
	}

	var resp entity.OrderResponse
	if err := s.client.Post(ctx, "/order/", order, MethodPost, &resp); err != nil {
		if IsAPIError(err) {
			slog.WarnContext(ctx, "order rejected", "items", len(order.Items), "total", order.Total, "error", err)
		}
		return nil, err
	}
	return &resp, nil
}
