// Package app holds the order service use cases: listing the catalog and
// accepting orders.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jcmexdev/storefront/internal/order-service/catalog"
	"github.com/jcmexdev/storefront/internal/order-service/domain"
	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
)

// OrderRepository persists accepted orders.
type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
}

const (
	idempotencyTTL = 24 * time.Hour
	pendingMarker  = "pending"
	// totals are compared in cents
	centEpsilon = 0.005
)

// OrderService checks submitted orders against the catalog and stores them.
type OrderService struct {
	catalog      *catalog.Catalog
	orders       OrderRepository
	cache        cache.Cache
	promoPercent float64
	now          func() time.Time
}

// NewOrderService builds the service. promoPercent is a discount in [0, 100)
// applied to every accepted order.
func NewOrderService(c *catalog.Catalog, orders OrderRepository, idem cache.Cache, promoPercent float64) *OrderService {
	return &OrderService{
		catalog:      c,
		orders:       orders,
		cache:        idem,
		promoPercent: promoPercent,
		now:          time.Now,
	}
}

func (s *OrderService) Products() []domain.Product {
	return s.catalog.Products()
}

func (s *OrderService) Product(id string) (domain.Product, error) {
	return s.catalog.Product(id)
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.Get(ctx, id)
}

// CreateOrder validates req, recomputes its total and stores it. A repeated call
// with the same idempotency key in ctx returns the order created by the first call.
func (s *OrderService) CreateOrder(ctx context.Context, req domain.CreateOrder) (*domain.Order, error) {
	idemKey := interceptors.IdempotencyKeyFromContext(ctx)
	requestID := interceptors.RequestIDFromContext(ctx)

	if idemKey == "" {
		return s.createOrder(ctx, req, idemKey, requestID)
	}

	cacheKey := s.cache.GenerateKey("create", idemKey)
	reserved, err := s.cache.SetIfAbsent(ctx, cacheKey, pendingMarker, idempotencyTTL)
	if err != nil {
		slog.WarnContext(ctx, "idempotency cache unavailable, processing without dedupe", "error", err)
		return s.createOrder(ctx, req, idemKey, requestID)
	}
	if !reserved {
		return s.replay(ctx, cacheKey)
	}

	order, err := s.createOrder(ctx, req, idemKey, requestID)
	if err != nil {
		if delErr := s.cache.Delete(ctx, cacheKey); delErr != nil {
			slog.ErrorContext(ctx, "failed to release idempotency key", "key", idemKey, "error", delErr)
		}
		return nil, err
	}
	if err := s.cache.Set(ctx, cacheKey, order.ID, idempotencyTTL); err != nil {
		slog.ErrorContext(ctx, "failed to record idempotency key", "key", idemKey, "order_id", order.ID, "error", err)
	}
	return order, nil
}

func (s *OrderService) replay(ctx context.Context, cacheKey string) (*domain.Order, error) {
	orderID, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("read idempotency key: %w", err)
	}
	if orderID == "" || orderID == pendingMarker {
		return nil, domain.ErrOrderInFlight
	}
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("replay order %s: %w", orderID, err)
	}
	slog.InfoContext(ctx, "order replayed", "order_id", order.ID)
	return order, nil
}

func (s *OrderService) createOrder(ctx context.Context, req domain.CreateOrder, idemKey, requestID string) (*domain.Order, error) {
	subtotal, err := s.validate(req)
	if err != nil {
		slog.InfoContext(ctx, "order rejected", "request_id", requestID, "reason", err)
		return nil, err
	}

	order := &domain.Order{
		ID:             uuid.NewString(),
		Payment:        req.Payment,
		Address:        req.Address,
		Email:          req.Email,
		Phone:          req.Phone,
		Items:          append([]string(nil), req.Items...),
		Subtotal:       subtotal,
		Total:          s.applyPromo(subtotal),
		Status:         domain.StatusAccepted,
		IdempotencyKey: idemKey,
		RequestID:      requestID,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	slog.InfoContext(ctx, "order accepted",
		"order_id", order.ID,
		"request_id", requestID,
		"items", len(order.Items),
		"subtotal", order.Subtotal,
		"total", order.Total,
	)
	return order, nil
}

// validate checks every rule and returns the catalog subtotal.
func (s *OrderService) validate(req domain.CreateOrder) (float64, error) {
	switch req.Payment {
	case "card", "cash":
	default:
		return 0, domain.Invalid("payment must be card or cash")
	}
	if strings.TrimSpace(req.Address) == "" {
		return 0, domain.Invalid("address is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return 0, domain.Invalid("email is required")
	}
	if strings.TrimSpace(req.Phone) == "" {
		return 0, domain.Invalid("phone is required")
	}
	if len(req.Items) == 0 {
		return 0, domain.Invalid("order has no items")
	}

	seen := make(map[string]struct{}, len(req.Items))
	var subtotal float64
	for _, id := range req.Items {
		if _, dup := seen[id]; dup {
			return 0, domain.Invalid(fmt.Sprintf("item %s is listed twice", id))
		}
		seen[id] = struct{}{}

		p, err := s.catalog.Product(id)
		if errors.Is(err, domain.ErrProductNotFound) {
			return 0, domain.Invalid(fmt.Sprintf("product %s not found", id))
		}
		if err != nil {
			return 0, err
		}
		if p.Price == nil {
			return 0, domain.Invalid(fmt.Sprintf("product %s is not for sale", id))
		}
		subtotal += *p.Price
	}

	if math.Abs(subtotal-req.Total) > centEpsilon {
		return 0, domain.Invalid("order total mismatch")
	}
	return subtotal, nil
}

func (s *OrderService) applyPromo(subtotal float64) float64 {
	if s.promoPercent <= 0 {
		return subtotal
	}
	discounted := subtotal * (100 - s.promoPercent) / 100
	return math.Round(discounted*100) / 100
}
