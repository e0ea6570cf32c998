// Package coordinator drives the storefront checkout: it owns the catalog, the cart
// and the buyer record, moves the session through the checkout steps and submits
// the assembled order.
package coordinator

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jcmexdev/storefront/internal/coordinator/checkoutlog"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/storefront/internal/storefront/model"
)

// DeliveryDetails is what the delivery form collects.
type DeliveryDetails struct {
	Payment entity.Payment
	Address string
}

// ContactDetails is what the contacts form collects.
type ContactDetails struct {
	Email string
	Phone string
}

// Confirmation describes an accepted order. Total is the value returned by the
// order service; LocalTotal is what the storefront computed and sent.
type Confirmation struct {
	OrderID    string
	Total      float64
	LocalTotal float64
}

// Coordinator is the checkout state machine. All methods are safe for concurrent
// use. While an order is in flight the coordinator holds a busy lease and rejects
// every mutating action with ErrBusy.
type Coordinator struct {
	mu    sync.Mutex
	state State
	busy  bool

	sessionID string

	catalog *model.Catalog
	cart    *model.Cart
	buyer   *model.Buyer

	products ports.CatalogService
	orders   ports.OrderService
	journal  checkoutlog.Repository // nil-safe

	stepErrors   map[model.Field]string
	confirmation *Confirmation

	// submitKey is the idempotency key of the last attempted order. A retry of
	// the same order reuses it so the order service can drop the duplicate.
	submitKey     string
	submitPending entity.OrderRequest
}

// NewCoordinator wires a coordinator to its remote services. journal may be nil, in
// which case transitions are only logged.
func NewCoordinator(products ports.CatalogService, orders ports.OrderService, journal checkoutlog.Repository) *Coordinator {
	return &Coordinator{
		state:     StateBrowsing,
		sessionID: uuid.NewString(),
		catalog:   model.NewCatalog(),
		cart:      model.NewCart(),
		buyer:     model.NewBuyer(),
		products:  products,
		orders:    orders,
		journal:   journal,
	}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether an order submission is in flight.
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Coordinator) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *Coordinator) Products() []entity.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog.Products()
}

func (c *Coordinator) Product(id string) (entity.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog.ProductByID(id)
}

// Selected returns the product being previewed.
func (c *Coordinator) Selected() (entity.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog.Selected()
}

func (c *Coordinator) CartItems() []entity.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Items()
}

func (c *Coordinator) CartCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Count()
}

func (c *Coordinator) CartTotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Total()
}

func (c *Coordinator) InCart(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.HasItem(id)
}

// Buyer returns the buyer fields collected so far.
func (c *Coordinator) Buyer() model.CustomerInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buyer.Info()
}

// StepErrors returns the errors to display at the current step, keyed by field.
func (c *Coordinator) StepErrors() map[model.Field]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[model.Field]string, len(c.stepErrors))
	for k, v := range c.stepErrors {
		out[k] = v
	}
	return out
}

// Confirmation returns the last accepted order while the confirmed step is open.
func (c *Coordinator) Confirmation() (Confirmation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.confirmation == nil {
		return Confirmation{}, false
	}
	return *c.confirmation, true
}

// CanProceedToDelivery reports whether the cart's proceed control is enabled.
func (c *Coordinator) CanProceedToDelivery() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.busy && c.state == StateCartReview && c.cart.Count() > 0
}

// CanProceedToContacts reports whether the delivery form may be submitted with d.
func (c *Coordinator) CanProceedToContacts(d DeliveryDetails) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.busy && c.state == StateDelivery && deliveryComplete(d)
}

// CanSubmit reports whether the order submit control is enabled for d.
func (c *Coordinator) CanSubmit(d ContactDetails) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.busy && c.state == StateContacts && contactsComplete(d) && c.cart.Count() > 0
}

func deliveryComplete(d DeliveryDetails) bool {
	return d.Payment.Known() && d.Address != ""
}

func contactsComplete(d ContactDetails) bool {
	return d.Email != "" && d.Phone != ""
}

// moveTo changes the step after checking the transition table and records the
// move. Callers hold c.mu.
func (c *Coordinator) moveTo(ctx context.Context, to State, orderID, detail string) error {
	from := c.state
	if !CanTransition(from, to) {
		return illegal(from, to)
	}
	c.state = to
	c.stepErrors = nil

	slog.InfoContext(ctx, "checkout transition",
		"session_id", c.sessionID,
		"from", from.String(),
		"to", to.String(),
	)

	if c.journal != nil {
		entry := checkoutlog.NewEntry(ctx, c.sessionID, from.String(), to.String(), orderID, detail)
		if err := c.journal.Append(ctx, entry); err != nil {
			slog.ErrorContext(ctx, "failed to append checkout log", "session_id", c.sessionID, "error", err)
		}
	}
	return nil
}
