package constants

// contextKey is an unexported type for context keys in this package so they
// cannot collide with keys of other packages.
type contextKey string

const (
	HeaderXRequestId      = "X-Request-Id"
	HeaderXIdempotencyKey = "X-Idempotency-Key"

	ContextKeyRequestID      contextKey = "x-request-id"
	ContextKeyIdempotencyKey contextKey = "x-idempotency-key"
)
