package model

import (
	"regexp"
	"strings"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

// Field names a buyer field that can fail validation.
type Field string

const (
	FieldPayment Field = "payment"
	FieldAddress Field = "address"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"

	// FieldOrder carries errors that belong to the order as a whole,
	// such as a rejected submission.
	FieldOrder Field = "order"
)

// Error messages shown next to failing fields.
const (
	ErrMsgPaymentRequired = "Select a payment method"
	ErrMsgAddressRequired = "Enter a delivery address"
	ErrMsgEmailInvalid    = "Enter a valid email address"
	ErrMsgPhoneInvalid    = "Enter a valid phone number"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@.]+(\.[^\s@.]+)+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9(][0-9 ().\-]*$`)
)

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// ValidationResult lists every failing field at once. An empty result is valid.
type ValidationResult struct {
	Errors map[Field]string
}

func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Error returns the message for field, or "" when it passed.
func (r ValidationResult) Error(field Field) string {
	return r.Errors[field]
}

func validate(info CustomerInfo) ValidationResult {
	errs := make(map[Field]string)

	if !info.Payment.Known() {
		errs[FieldPayment] = ErrMsgPaymentRequired
	}
	if strings.TrimSpace(info.Address) == "" {
		errs[FieldAddress] = ErrMsgAddressRequired
	}
	if !ValidEmail(info.Email) {
		errs[FieldEmail] = ErrMsgEmailInvalid
	}
	if !ValidPhone(info.Phone) {
		errs[FieldPhone] = ErrMsgPhoneInvalid
	}

	return ValidationResult{Errors: errs}
}

// ValidEmail accepts local@domain.tld shaped addresses.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// ValidPhone accepts an optional leading "+" followed by 7 to 15 digits, which may be
// separated by spaces, dots, hyphens or parentheses.
func ValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	if !phonePattern.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}

// ParsePayment maps user input onto a known payment method.
func ParsePayment(s string) (entity.Payment, bool) {
	p := entity.Payment(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Known()
}
