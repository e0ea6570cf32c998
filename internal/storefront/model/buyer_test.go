package model

import (
	"testing"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestBuyer_EmptyHasFourErrors(t *testing.T) {
	res := NewBuyer().Validate()

	assert.False(t, res.Valid())
	assert.Len(t, res.Errors, 4)
	assert.Equal(t, ErrMsgPaymentRequired, res.Error(FieldPayment))
	assert.Equal(t, ErrMsgAddressRequired, res.Error(FieldAddress))
	assert.Equal(t, ErrMsgEmailInvalid, res.Error(FieldEmail))
	assert.Equal(t, ErrMsgPhoneInvalid, res.Error(FieldPhone))
}

func TestBuyer_ValidAfterSetCustomerInfo(t *testing.T) {
	b := NewBuyer()
	b.SetCustomerInfo(CustomerInfoUpdate{
		Payment: ptr(entity.PaymentCard),
		Address: ptr("Spb Vosstania 1"),
		Phone:   ptr("+71234567890"),
		Email:   ptr("test@test.ru"),
	})

	res := b.Validate()
	assert.True(t, res.Valid(), "unexpected errors: %v", res.Errors)
}

func TestBuyer_PartialUpdateKeepsOtherFields(t *testing.T) {
	b := NewBuyer()
	b.SetAddress("Main st 1")
	b.SetCustomerInfo(CustomerInfoUpdate{Email: ptr("a@b.co")})

	info := b.Info()
	assert.Equal(t, "Main st 1", info.Address)
	assert.Equal(t, "a@b.co", info.Email)
	assert.Equal(t, entity.Payment(""), info.Payment)
}

func TestBuyer_WriteDoesNotValidate(t *testing.T) {
	b := NewBuyer()
	b.SetEmail("not-an-email")

	assert.Equal(t, "not-an-email", b.Info().Email)
	assert.Equal(t, ErrMsgEmailInvalid, b.Validate().Error(FieldEmail))
}

func TestBuyer_WhitespaceAddressFails(t *testing.T) {
	b := NewBuyer()
	b.SetAddress("   ")

	assert.Equal(t, ErrMsgAddressRequired, b.Validate().Error(FieldAddress))
}

func TestBuyer_UnknownPaymentFails(t *testing.T) {
	b := NewBuyer()
	b.SetPayment("crypto")

	assert.Equal(t, ErrMsgPaymentRequired, b.Validate().Error(FieldPayment))
}

func TestBuyer_Clear(t *testing.T) {
	b := NewBuyer()
	b.SetPayment(entity.PaymentCash)
	b.SetPhone("+71234567890")

	b.Clear()

	assert.Equal(t, CustomerInfo{}, b.Info())
	assert.Len(t, b.Validate().Errors, 4)
}

func TestValidEmail(t *testing.T) {
	cases := map[string]bool{
		"test@test.ru":      true,
		"a@b.co":            true,
		"first.last@x.y.io": true,
		"":                  false,
		"plain":             false,
		"a@b":               false,
		"a@@b.co":           false,
		"a b@c.co":          false,
		"a@.co":             false,
		"a@b.":              false,
	}
	for in, want := range cases {
		assert.Equal(t, want, ValidEmail(in), "email %q", in)
	}
}

func TestValidPhone(t *testing.T) {
	cases := map[string]bool{
		"+71234567890":       true,
		"71234567890":        true,
		"+7 (912) 345-67-89": true,
		"(495) 123-45-67":    true,
		"1234567":            true,
		"":                   false,
		"phone":              false,
		"+":                  false,
		"123456":             false,
		"+1234567890123456":  false,
		"12-34-ab-56":        false,
		"++71234567890":      false,
	}
	for in, want := range cases {
		assert.Equal(t, want, ValidPhone(in), "phone %q", in)
	}
}

func TestParsePayment(t *testing.T) {
	p, ok := ParsePayment(" Card ")
	assert.True(t, ok)
	assert.Equal(t, entity.PaymentCard, p)

	_, ok = ParsePayment("barter")
	assert.False(t, ok)
}
