package payment

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransactionFinal    = errors.New("transaction status cannot change")
	ErrAmountMismatch      = errors.New("paid amount does not match transaction")
)
