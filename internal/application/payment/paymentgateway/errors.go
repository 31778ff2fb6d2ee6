package paymentgateway

import (
	"errors"
	"fmt"

	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed gateway payload")
	ErrUnknownProvider  = errors.New("unknown payment provider")
)

// Error is the single error type adapters return. Raw transport and decoding
// errors are wrapped inside it.
type Error struct {
	Provider vo.Provider
	Op       string
	// Temporary marks failures worth retrying, such as timeouts and 5xx.
	Temporary bool
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error for a failed provider call.
func NewError(provider vo.Provider, op string, temporary bool, err error) *Error {
	return &Error{Provider: provider, Op: op, Temporary: temporary, Err: err}
}

// IsTemporary reports whether err is a retryable gateway failure.
func IsTemporary(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Temporary
}
