package httpx

type ProductResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Price       *float64 `json:"price"`
}

type ProductListResponse struct {
	Total int               `json:"total"`
	Items []ProductResponse `json:"items"`
}

type CreateOrderRequest struct {
	Payment string   `json:"payment"`
	Address string   `json:"address"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Items   []string `json:"items"`
	Total   float64  `json:"total"`
}

type CreateOrderResponse struct {
	ID    string  `json:"id"`
	Total float64 `json:"total"`
}

type OrderResponse struct {
	ID        string   `json:"id"`
	Payment   string   `json:"payment"`
	Address   string   `json:"address"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Items     []string `json:"items"`
	Subtotal  float64  `json:"subtotal"`
	Total     float64  `json:"total"`
	Status    string   `json:"status"`
	CreatedAt string   `json:"created_at"`
}

// ErrorResponse carries a human readable message in Error and a stable code.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
