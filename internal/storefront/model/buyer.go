package model

import "github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"

// CustomerInfo is a snapshot of the buyer fields.
type CustomerInfo struct {
	Payment entity.Payment `json:"payment"`
	Address string         `json:"address"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone"`
}

// CustomerInfoUpdate is a partial update; nil fields are left as they are.
type CustomerInfoUpdate struct {
	Payment *entity.Payment
	Address *string
	Email   *string
	Phone   *string
}

// Buyer collects checkout fields. Writes never validate; call Validate explicitly.
type Buyer struct {
	info CustomerInfo
}

func NewBuyer() *Buyer {
	return &Buyer{}
}

func (b *Buyer) SetCustomerInfo(u CustomerInfoUpdate) {
	if u.Payment != nil {
		b.info.Payment = *u.Payment
	}
	if u.Address != nil {
		b.info.Address = *u.Address
	}
	if u.Email != nil {
		b.info.Email = *u.Email
	}
	if u.Phone != nil {
		b.info.Phone = *u.Phone
	}
}

func (b *Buyer) SetPayment(p entity.Payment) { b.info.Payment = p }
func (b *Buyer) SetAddress(s string)         { b.info.Address = s }
func (b *Buyer) SetEmail(s string)           { b.info.Email = s }
func (b *Buyer) SetPhone(s string)           { b.info.Phone = s }

func (b *Buyer) Info() CustomerInfo {
	return b.info
}

// Validate checks every field and reports all failures together.
func (b *Buyer) Validate() ValidationResult {
	return validate(b.info)
}

// Clear resets the buyer to the empty state with no payment method.
func (b *Buyer) Clear() {
	b.info = CustomerInfo{}
}
