package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrPlanNotFound            = errors.New("subscription plan not found")
	ErrPlanInactive            = errors.New("subscription plan inactive")
	ErrPlanNameExists          = errors.New("plan name already exists")
	ErrPaymentNotFound         = errors.New("subscription payment not found")
	ErrPaymentReferenceExists  = errors.New("payment reference already exists")
	ErrInvalidPaymentState     = errors.New("invalid payment state")
	ErrInvalidCutoff           = errors.New("invalid cutoff date")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
