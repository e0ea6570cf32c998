package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(interceptors.AttachCorrelation)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", handler.Health)
	r.Route("/product", func(r chi.Router) {
		r.Get("/", handler.ListProducts)
		r.Get("/{id}", handler.GetProduct)
	})
	r.Route("/order", func(r chi.Router) {
		r.Post("/", handler.CreateOrder)
		r.Get("/{id}", handler.GetOrderByID)
	})
	return otelhttp.NewHandler(r, "order-service")
}
