package interceptors

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
)

// Transport copies the request id and idempotency key from the request context
// into headers. A request without an id gets a fresh one.
type Transport struct {
	Base http.RoundTripper
}

func NewTransport(base http.RoundTripper) *Transport {
	return &Transport{Base: base}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	// RoundTrippers must not modify the caller's request.
	out := req.Clone(ctx)
	if out.Header.Get(constants.HeaderXRequestId) == "" {
		out.Header.Set(constants.HeaderXRequestId, requestID)
	}
	if key := IdempotencyKeyFromContext(ctx); key != "" && out.Header.Get(constants.HeaderXIdempotencyKey) == "" {
		out.Header.Set(constants.HeaderXIdempotencyKey, key)
	}
	return t.base().RoundTrip(out)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
