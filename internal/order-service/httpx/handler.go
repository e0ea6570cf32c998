package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jcmexdev/storefront/internal/order-service/app"
	"github.com/jcmexdev/storefront/internal/order-service/domain"
)

// Handler serves the catalog and order endpoints.
type Handler struct {
	orders *app.OrderService
}

func NewHandler(orders *app.OrderService) *Handler {
	return &Handler{orders: orders}
}

// ListProducts returns the whole catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.orders.Products()
	items := make([]ProductResponse, len(products))
	for i, p := range products {
		items[i] = mapProduct(p)
	}
	writeJSON(w, http.StatusOK, ProductListResponse{Total: len(items), Items: items})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.orders.Product(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

// CreateOrder accepts an order from the storefront. The response total is the
// amount to pay and may differ from the submitted one.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON")
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), domain.CreateOrder{
		Payment: req.Payment,
		Address: req.Address,
		Email:   req.Email,
		Phone:   req.Phone,
		Items:   req.Items,
		Total:   req.Total,
	})

	var invalid *domain.InvalidOrderError
	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, "invalid_order", invalid.Reason)
		return
	case errors.Is(err, domain.ErrOrderInFlight):
		writeError(w, http.StatusConflict, "order_in_flight", err.Error())
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "create order failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "order could not be processed")
		return
	}

	writeJSON(w, http.StatusCreated, CreateOrderResponse{ID: order.ID, Total: order.Total})
}

func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", "order not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "get order failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "order could not be loaded")
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func mapProduct(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Price:       p.Price,
	}
}

func mapOrder(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:        o.ID,
		Payment:   o.Payment,
		Address:   o.Address,
		Email:     o.Email,
		Phone:     o.Phone,
		Items:     o.Items,
		Subtotal:  o.Subtotal,
		Total:     o.Total,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}
