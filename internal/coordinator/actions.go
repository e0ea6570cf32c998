package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/jcmexdev/storefront/internal/coordinator")

// LoadCatalog fetches the product list and replaces the catalog with it.
func (c *Coordinator) LoadCatalog(ctx context.Context) error {
	products, err := c.products.FetchProducts(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalog.SetProducts(products)
	slog.InfoContext(ctx, "catalog loaded", "session_id", c.sessionID, "products", len(products))
	return nil
}

// PreviewProduct marks a product as the one being previewed.
func (c *Coordinator) PreviewProduct(ctx context.Context, id string) (entity.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return entity.Product{}, ErrBusy
	}
	if c.state != StateBrowsing {
		return entity.Product{}, fmt.Errorf("%w: preview from %s", ErrIllegalTransition, c.state)
	}
	p, ok := c.catalog.ProductByID(id)
	if !ok {
		return entity.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	c.catalog.SetSelected(p)
	return p, nil
}

// AddToCart puts a catalog product into the cart. Priceless products are refused.
// Adding a product that is already in the cart does nothing.
func (c *Coordinator) AddToCart(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkCartEditable(); err != nil {
		return err
	}
	p, ok := c.catalog.ProductByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if !p.Purchasable() {
		return fmt.Errorf("%w: %s", ErrNotPurchasable, id)
	}
	if !c.cart.HasItem(id) {
		c.cart.AddItem(p)
		c.dropSubmitKey()
	}
	slog.DebugContext(ctx, "cart item added", "session_id", c.sessionID, "product_id", id)
	return nil
}

// RemoveFromCart drops a product from the cart. Unknown ids are ignored.
func (c *Coordinator) RemoveFromCart(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkCartEditable(); err != nil {
		return err
	}
	if c.cart.HasItem(id) {
		c.cart.RemoveItem(id)
		c.dropSubmitKey()
	}
	slog.DebugContext(ctx, "cart item removed", "session_id", c.sessionID, "product_id", id)
	return nil
}

func (c *Coordinator) checkCartEditable() error {
	if c.busy {
		return ErrBusy
	}
	if !c.state.cartEditable() {
		return fmt.Errorf("%w: %s", ErrCartLocked, c.state)
	}
	return nil
}

// OpenCart shows the cart, either from the catalog or by going back from a later
// checkout step.
func (c *Coordinator) OpenCart(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}
	if c.state == StateCartReview {
		return nil
	}
	return c.moveTo(ctx, StateCartReview, "", "")
}

// ProceedToDelivery leaves the cart for the delivery form. The cart must not be
// empty.
func (c *Coordinator) ProceedToDelivery(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}
	if c.state != StateCartReview {
		return illegal(c.state, StateDelivery)
	}
	if c.cart.Count() == 0 {
		return ErrEmptyCart
	}
	return c.moveTo(ctx, StateDelivery, "", "")
}

// ProceedToContacts leaves the delivery form. Only presence is checked here; the
// details are written to the buyer record on success.
func (c *Coordinator) ProceedToContacts(ctx context.Context, d DeliveryDetails) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}
	if c.state != StateDelivery {
		return illegal(c.state, StateContacts)
	}
	if !deliveryComplete(d) {
		errs := make(map[model.Field]string)
		if !d.Payment.Known() {
			errs[model.FieldPayment] = model.ErrMsgPaymentRequired
		}
		if d.Address == "" {
			errs[model.FieldAddress] = model.ErrMsgAddressRequired
		}
		c.stepErrors = errs
		return ErrStepIncomplete
	}

	if err := c.moveTo(ctx, StateContacts, "", ""); err != nil {
		return err
	}
	c.buyer.SetPayment(d.Payment)
	c.buyer.SetAddress(d.Address)
	return nil
}

// SubmitOrder writes the contact details, validates the whole buyer record and
// sends the order. On success the cart and buyer are cleared and the confirmation
// carries the total returned by the order service. On failure the session returns
// to the contacts step with every collected value kept.
//
// The remote call cannot be cancelled through ctx once it has started. A retry of
// an order that failed carries the same idempotency key as the failed attempt.
func (c *Coordinator) SubmitOrder(ctx context.Context, d ContactDetails) (*Confirmation, error) {
	ctx, span := tracer.Start(ctx, "checkout.submit_order")
	defer span.End()

	req, key, err := c.beginSubmission(ctx, d)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("checkout.session_id", c.SessionID()),
		attribute.Int("checkout.items", len(req.Items)),
		attribute.Float64("checkout.total", req.Total),
	)

	sendCtx := interceptors.WithIdempotencyKey(context.WithoutCancel(ctx), key)
	resp, sendErr := c.orders.SendOrder(sendCtx, req)
	if sendErr == nil && resp == nil {
		sendErr = errors.New("order service returned an empty response")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if sendErr != nil {
		span.RecordError(sendErr)
		span.SetStatus(codes.Error, sendErr.Error())
		slog.ErrorContext(ctx, "order submission failed", "session_id", c.sessionID, "error", sendErr)
		_ = c.moveTo(ctx, StateContacts, "", sendErr.Error())
		c.stepErrors = map[model.Field]string{model.FieldOrder: sendErr.Error()}
		return nil, &TransportError{Err: sendErr}
	}

	span.SetAttributes(attribute.String("checkout.order_id", resp.ID))
	conf := &Confirmation{OrderID: resp.ID, Total: resp.Total, LocalTotal: req.Total}
	_ = c.moveTo(ctx, StateConfirmed, resp.ID, strconv.FormatFloat(resp.Total, 'f', -1, 64))
	c.confirmation = conf
	c.dropSubmitKey()
	c.cart.Clear()
	c.buyer.Clear()
	c.catalog.ClearSelected()

	slog.InfoContext(ctx, "order confirmed",
		"session_id", c.sessionID,
		"order_id", resp.ID,
		"total", resp.Total,
		"local_total", req.Total,
	)
	out := *conf
	return &out, nil
}

// beginSubmission runs every local check and, when they pass, takes the busy lease
// and moves to the submitting step. The returned request is built from the current
// cart, so its total is always fresh. The key is reused while the request is
// unchanged since the last attempt.
func (c *Coordinator) beginSubmission(ctx context.Context, d ContactDetails) (entity.OrderRequest, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return entity.OrderRequest{}, "", ErrBusy
	}
	if c.state != StateContacts {
		return entity.OrderRequest{}, "", illegal(c.state, StateSubmitting)
	}
	if !contactsComplete(d) {
		errs := make(map[model.Field]string)
		if d.Email == "" {
			errs[model.FieldEmail] = model.ErrMsgEmailInvalid
		}
		if d.Phone == "" {
			errs[model.FieldPhone] = model.ErrMsgPhoneInvalid
		}
		c.stepErrors = errs
		return entity.OrderRequest{}, "", ErrStepIncomplete
	}

	c.buyer.SetEmail(d.Email)
	c.buyer.SetPhone(d.Phone)

	if c.cart.Count() == 0 {
		return entity.OrderRequest{}, "", ErrEmptyCart
	}
	if res := c.buyer.Validate(); !res.Valid() {
		c.stepErrors = res.Errors
		return entity.OrderRequest{}, "", &ValidationError{Result: res}
	}

	info := c.buyer.Info()
	req := entity.OrderRequest{
		Payment: info.Payment,
		Address: info.Address,
		Email:   info.Email,
		Phone:   info.Phone,
		Items:   c.cart.IDs(),
		Total:   c.cart.Total(),
	}

	if err := c.moveTo(ctx, StateSubmitting, "", ""); err != nil {
		return entity.OrderRequest{}, "", err
	}
	if c.submitKey == "" || !c.submitPending.Equal(req) {
		c.submitKey = uuid.NewString()
		c.submitPending = req
	}
	c.busy = true
	return req, c.submitKey, nil
}

func (c *Coordinator) dropSubmitKey() {
	c.submitKey = ""
	c.submitPending = entity.OrderRequest{}
}

// DismissConfirmation closes the confirmation and starts a fresh session in the
// catalog.
func (c *Coordinator) DismissConfirmation(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConfirmed {
		return illegal(c.state, StateBrowsing)
	}
	if err := c.moveTo(ctx, StateBrowsing, "", ""); err != nil {
		return err
	}
	c.confirmation = nil
	c.sessionID = uuid.NewString()
	return nil
}

// Back re-opens an earlier checkout step.
func (c *Coordinator) Back(ctx context.Context, to State) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}
	if to >= c.state || c.state == StateConfirmed {
		return illegal(c.state, to)
	}
	return c.moveTo(ctx, to, "", "")
}

// Close dismisses whatever step is open and returns to the catalog. Closing the
// confirmation is the same as dismissing it.
func (c *Coordinator) Close(ctx context.Context) error {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	switch state {
	case StateBrowsing:
		c.mu.Lock()
		c.catalog.ClearSelected()
		c.mu.Unlock()
		return nil
	case StateConfirmed:
		return c.DismissConfirmation(ctx)
	default:
		return c.Back(ctx, StateBrowsing)
	}
}

// Reset empties the cart and buyer record and returns to the catalog.
func (c *Coordinator) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}
	if c.state != StateBrowsing {
		if err := c.moveTo(ctx, StateBrowsing, "", "reset"); err != nil {
			return err
		}
	}
	c.cart.Clear()
	c.buyer.Clear()
	c.catalog.ClearSelected()
	c.confirmation = nil
	c.stepErrors = nil
	c.dropSubmitKey()
	return nil
}
