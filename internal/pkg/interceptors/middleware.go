package interceptors

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
)

// AttachCorrelation puts the request id assigned by chi's RequestID middleware and
// the caller's idempotency key into the request context. It must run after
// middleware.RequestID.
func AttachCorrelation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		idempotencyKey := r.Header.Get(constants.HeaderXIdempotencyKey)

		ctx := WithRequestID(r.Context(), requestID)
		ctx = WithIdempotencyKey(ctx, idempotencyKey)

		slog.DebugContext(ctx, "request correlated",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestID,
			"idempotency_key", idempotencyKey,
		)

		w.Header().Set(constants.HeaderXRequestId, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
