package domain

import (
	"errors"
	"time"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderInFlight means an order with the same idempotency key is still being processed.
	ErrOrderInFlight = errors.New("order with this idempotency key is being processed")
)

// InvalidOrderError is a rejected order. Its message is shown to the buyer.
type InvalidOrderError struct {
	Reason string
}

func (e *InvalidOrderError) Error() string {
	return e.Reason
}

func Invalid(reason string) error {
	return &InvalidOrderError{Reason: reason}
}

// Order is an accepted order. Subtotal is the sum of catalog prices; Total is what
// the buyer pays after any promotion.
type Order struct {
	ID             string
	Payment        string
	Address        string
	Email          string
	Phone          string
	Items          []string
	Subtotal       float64
	Total          float64
	Status         OrderStatus
	IdempotencyKey string
	RequestID      string
	CreatedAt      time.Time
}

type OrderStatus string

const (
	StatusAccepted OrderStatus = "ACCEPTED"
)

// CreateOrder is the order as submitted by the storefront.
type CreateOrder struct {
	Payment string
	Address string
	Email   string
	Phone   string
	Items   []string
	Total   float64
}
