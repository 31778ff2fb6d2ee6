package credential

import "errors"

var (
	ErrCardNotFound        = errors.New("id card not found")
	ErrIDNumberAssigned    = errors.New("id number already assigned")
	ErrIDNumberConflict    = errors.New("id number already in use")
	ErrInvalidValidityDays = errors.New("validity days must be positive")
)
