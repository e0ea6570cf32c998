package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jcmexdev/storefront/internal/coordinator"
	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderServer serves a one-product catalog. Each POST /order/ answers with the
// next status from statuses (201 once they run out) after delay.
type orderServer struct {
	mu       sync.Mutex
	delay    time.Duration
	statuses []int
	keys     []string
}

func (o *orderServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		_, _ = w.Write([]byte(`{"total":1,"items":[{"id":"a","title":"A","price":100}]}`))
		return
	}

	o.mu.Lock()
	o.keys = append(o.keys, r.Header.Get(constants.HeaderXIdempotencyKey))
	status := http.StatusCreated
	if len(o.statuses) > 0 {
		status, o.statuses = o.statuses[0], o.statuses[1:]
	}
	delay := o.delay
	o.mu.Unlock()

	time.Sleep(delay)
	w.WriteHeader(status)
	if status == http.StatusCreated {
		_, _ = w.Write([]byte(`{"id":"order-1","total":100}`))
		return
	}
	_, _ = w.Write([]byte(`{"error":"try again later","code":"unavailable"}`))
}

func (o *orderServer) sentKeys() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.keys...)
}

func newHTTPCheckout(t *testing.T, srv *orderServer) *coordinator.Coordinator {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	svc := NewHTTPOrderService(NewClient(ts.URL))
	c := coordinator.NewCoordinator(svc, svc, nil)
	ctx := context.Background()
	require.NoError(t, c.LoadCatalog(ctx))
	require.NoError(t, c.AddToCart(ctx, "a"))
	require.NoError(t, c.OpenCart(ctx))
	require.NoError(t, c.ProceedToDelivery(ctx))
	require.NoError(t, c.ProceedToContacts(ctx, coordinator.DeliveryDetails{Payment: entity.PaymentCard, Address: "X"}))
	return c
}

func TestCheckout_SlowOrderServiceStillConfirms(t *testing.T) {
	c := newHTTPCheckout(t, &orderServer{delay: 300 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	conf, err := c.SubmitOrder(ctx, coordinator.ContactDetails{Email: "a@b.co", Phone: "+71234567890"})
	require.NoError(t, err)

	assert.Equal(t, "order-1", conf.OrderID)
	assert.Equal(t, coordinator.StateConfirmed, c.State())
}

func TestCheckout_RetrySendsSameIdempotencyKey(t *testing.T) {
	srv := &orderServer{statuses: []int{http.StatusServiceUnavailable}}
	c := newHTTPCheckout(t, srv)
	contacts := coordinator.ContactDetails{Email: "a@b.co", Phone: "+71234567890"}

	_, err := c.SubmitOrder(context.Background(), contacts)
	require.Error(t, err)
	assert.Equal(t, "try again later", err.Error())
	assert.Equal(t, coordinator.StateContacts, c.State())

	_, err = c.SubmitOrder(context.Background(), contacts)
	require.NoError(t, err)

	keys := srv.sentKeys()
	require.Len(t, keys, 2)
	assert.NotEmpty(t, keys[0])
	assert.Equal(t, keys[0], keys[1])
}
