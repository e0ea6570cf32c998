package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, h http.HandlerFunc) *HTTPOrderService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPOrderService(NewClient(srv.URL + "/"))
}

func TestFetchProducts(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/product/", r.URL.Path)
		_, _ = w.Write([]byte(`{"total":2,"items":[
			{"id":"a","title":"A","price":100},
			{"id":"b","title":"B","price":null}
		]}`))
	})

	products, err := svc.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 100.0, *products[0].Price)
	assert.Nil(t, products[1].Price)
}

func TestFetchProducts_NoItems(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total":0}`))
	})

	products, err := svc.FetchProducts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestSendOrder(t *testing.T) {
	var got entity.OrderRequest
	var idemKey, requestID string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/order/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		idemKey = r.Header.Get(constants.HeaderXIdempotencyKey)
		requestID = r.Header.Get(constants.HeaderXRequestId)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"order-1","total":270}`))
	})

	ctx := interceptors.WithRequestID(context.Background(), "req-1")
	resp, err := svc.SendOrder(ctx, entity.OrderRequest{
		Payment: entity.PaymentCard,
		Address: "X",
		Email:   "a@b.co",
		Phone:   "+71234567890",
		Items:   []string{"a", "b"},
		Total:   300,
	})
	require.NoError(t, err)

	assert.Equal(t, "order-1", resp.ID)
	assert.Equal(t, 270.0, resp.Total)
	assert.Equal(t, []string{"a", "b"}, got.Items)
	assert.Equal(t, entity.PaymentCard, got.Payment)
	assert.NotEmpty(t, idemKey)
	assert.Equal(t, "req-1", requestID)
}

func TestSendOrder_KeepsCallerIdempotencyKey(t *testing.T) {
	var idemKey string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		idemKey = r.Header.Get(constants.HeaderXIdempotencyKey)
		_, _ = w.Write([]byte(`{"id":"x","total":1}`))
	})

	ctx := interceptors.WithIdempotencyKey(context.Background(), "fixed")
	_, err := svc.SendOrder(ctx, entity.OrderRequest{Items: []string{"a"}, Total: 1})
	require.NoError(t, err)
	assert.Equal(t, "fixed", idemKey)
}

func TestSendOrder_ServerErrorMessage(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"order total mismatch"}`))
	})

	_, err := svc.SendOrder(context.Background(), entity.OrderRequest{Items: []string{"a"}, Total: 1})
	require.Error(t, err)
	assert.Equal(t, "order total mismatch", err.Error())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.True(t, IsAPIError(err))
}

func TestSendOrder_StatusTextFallback(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := svc.SendOrder(context.Background(), entity.OrderRequest{Items: []string{"a"}, Total: 1})
	require.Error(t, err)
	assert.Equal(t, "Bad Gateway", err.Error())
}

func TestSendOrder_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc := NewHTTPOrderService(NewClient(url))
	_, err := svc.SendOrder(context.Background(), entity.OrderRequest{Items: []string{"a"}, Total: 1})
	require.ErrorIs(t, err, ErrUnreachable)
	assert.False(t, IsAPIError(err))
	assert.Equal(t, "order service unreachable", err.Error())
}

func TestFetchProducts_DeadlineExceeded(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := svc.FetchProducts(ctx)
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "order service did not respond in time", err.Error())
}

func TestFetchProducts_UnreadableBody(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := svc.FetchProducts(context.Background())
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestClient_PostMethods(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	c := NewClient(srv.URL)

	require.NoError(t, c.Post(context.Background(), "/order/x", map[string]string{}, MethodPut, nil))
	assert.Equal(t, http.MethodPut, method)

	require.NoError(t, c.Post(context.Background(), "/order/x", nil, MethodDelete, nil))
	assert.Equal(t, http.MethodDelete, method)

	require.NoError(t, c.Post(context.Background(), "/order/", nil, "", nil))
	assert.Equal(t, http.MethodPost, method)

	err := c.Post(context.Background(), "/order/", nil, PostMethod("PATCH"), nil)
	assert.ErrorContains(t, err, "unsupported method")
}

func TestFakeOrderService(t *testing.T) {
	f := NewFakeOrderService([]entity.Product{
		{ID: "a", Price: entity.Price(100)},
		{ID: "free"},
	})
	ctx := context.Background()

	products, err := f.FetchProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	resp, err := f.SendOrder(ctx, entity.OrderRequest{Items: []string{"a"}, Total: 100})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 100.0, resp.Total)

	_, err = f.SendOrder(ctx, entity.OrderRequest{Items: []string{"a"}, Total: 90})
	assert.ErrorContains(t, err, "order total mismatch")

	_, err = f.SendOrder(ctx, entity.OrderRequest{Items: []string{"free"}, Total: 0})
	assert.ErrorContains(t, err, "not for sale")

	_, err = f.SendOrder(ctx, entity.OrderRequest{})
	assert.ErrorContains(t, err, "no items")
}
