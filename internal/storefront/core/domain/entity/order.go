package entity

import "slices"

// Payment is the method the buyer pays with.
type Payment string

const (
	PaymentCard Payment = "card"
	PaymentCash Payment = "cash"
)

// Known reports whether p is one of the supported payment methods.
func (p Payment) Known() bool {
	return p == PaymentCard || p == PaymentCash
}

// OrderRequest is assembled from the buyer and the cart at submission time.
type OrderRequest struct {
	Payment Payment  `json:"payment"`
	Address string   `json:"address"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Items   []string `json:"items"`
	Total   float64  `json:"total"`
}

// Equal reports whether both requests describe the same order.
func (r OrderRequest) Equal(o OrderRequest) bool {
	return r.Payment == o.Payment &&
		r.Address == o.Address &&
		r.Email == o.Email &&
		r.Phone == o.Phone &&
		r.Total == o.Total &&
		slices.Equal(r.Items, o.Items)
}

// OrderResponse is returned by the order service. Total is authoritative and may
// differ from the total that was sent.
type OrderResponse struct {
	ID    string  `json:"id"`
	Total float64 `json:"total"`
}
