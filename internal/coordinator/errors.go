package coordinator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jcmexdev/storefront/internal/storefront/model"
)

var (
	ErrIllegalTransition = errors.New("illegal checkout transition")
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrStepIncomplete    = errors.New("checkout step is incomplete")
	ErrProductNotFound   = errors.New("product not found")
	ErrNotPurchasable    = errors.New("product is not for sale")
	ErrCartLocked        = errors.New("cart cannot change at this step")
	ErrBusy              = errors.New("order submission in progress")
)

// ValidationError is returned when the buyer record fails validation at submit
// time. It carries every failing field.
type ValidationError struct {
	Result model.ValidationResult
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Result.Errors))
	for f := range e.Result.Errors {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid customer info: %s", strings.Join(fields, ", "))
}

// TransportError wraps a failure of the order service. Its message is meant to be
// shown to the buyer as is.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func illegal(from, to State) error {
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}
