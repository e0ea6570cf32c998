// Package interceptors carries request correlation ids between the storefront and
// the order service: an outgoing http.RoundTripper on the client side and a chi
// middleware on the server side.
package interceptors

import (
	"context"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyRequestID, id)
}

// RequestIDFromContext returns "" when no request id is set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(constants.ContextKeyRequestID).(string)
	return id
}

func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyIdempotencyKey, key)
}

// IdempotencyKeyFromContext returns "" when no key is set.
func IdempotencyKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(constants.ContextKeyIdempotencyKey).(string)
	return key
}
