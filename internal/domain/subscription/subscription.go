package subscription

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/memberhub/memberhub/internal/domain/subscription/valueobjects"
	"github.com/memberhub/memberhub/internal/shared/biztime"
)

// Subscription is one membership period of a user. Its end date is derived
// from the start date by the organization's CutoffPolicy and never set
// independently.
type Subscription struct {
	id               uint
	userID           uint
	planID           uint
	status           vo.SubscriptionStatus
	startDate        time.Time
	endDate          time.Time
	amountPaid       decimal.Decimal
	paymentMethod    vo.PaymentMethod
	paymentReference *string
	autoRenew        bool
	activatedAt      *time.Time
	cancelledAt      *time.Time
	createdAt        time.Time
	updatedAt        time.Time
}

// NewSubscription creates a pending subscription starting on startDate.
func NewSubscription(userID, planID uint, startDate time.Time, policy CutoffPolicy, now time.Time) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if startDate.IsZero() {
		return nil, fmt.Errorf("start date is required")
	}

	start := biztime.TruncateDate(startDate)
	return &Subscription{
		userID:        userID,
		planID:        planID,
		status:        vo.StatusPending,
		startDate:     start,
		endDate:       policy.EndDate(start),
		amountPaid:    decimal.Zero,
		paymentMethod: vo.MethodOther,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(
	id, userID, planID uint,
	status vo.SubscriptionStatus,
	startDate, endDate time.Time,
	amountPaid decimal.Decimal,
	paymentMethod vo.PaymentMethod,
	paymentReference *string,
	autoRenew bool,
	activatedAt, cancelledAt *time.Time,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date %s precedes start date %s", biztime.FormatDate(endDate), biztime.FormatDate(startDate))
	}

	return &Subscription{
		id:               id,
		userID:           userID,
		planID:           planID,
		status:           status,
		startDate:        biztime.TruncateDate(startDate),
		endDate:          biztime.TruncateDate(endDate),
		amountPaid:       amountPaid,
		paymentMethod:    paymentMethod,
		paymentReference: paymentReference,
		autoRenew:        autoRenew,
		activatedAt:      activatedAt,
		cancelledAt:      cancelledAt,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (s *Subscription) ID() uint                        { return s.id }
func (s *Subscription) UserID() uint                    { return s.userID }
func (s *Subscription) PlanID() uint                    { return s.planID }
func (s *Subscription) Status() vo.SubscriptionStatus   { return s.status }
func (s *Subscription) StartDate() time.Time            { return s.startDate }
func (s *Subscription) EndDate() time.Time              { return s.endDate }
func (s *Subscription) AmountPaid() decimal.Decimal     { return s.amountPaid }
func (s *Subscription) PaymentMethod() vo.PaymentMethod { return s.paymentMethod }
func (s *Subscription) PaymentReference() *string       { return s.paymentReference }
func (s *Subscription) AutoRenew() bool                 { return s.autoRenew }
func (s *Subscription) ActivatedAt() *time.Time         { return s.activatedAt }
func (s *Subscription) CancelledAt() *time.Time         { return s.cancelledAt }
func (s *Subscription) CreatedAt() time.Time            { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time            { return s.updatedAt }
func (s *Subscription) IsPending() bool                 { return s.status == vo.StatusPending }

func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// SetPaymentDetails records how the subscription is being paid for.
func (s *Subscription) SetPaymentDetails(method vo.PaymentMethod, amountPaid decimal.Decimal, reference *string, now time.Time) error {
	if amountPaid.IsNegative() {
		return fmt.Errorf("amount paid cannot be negative")
	}
	s.paymentMethod = method
	s.amountPaid = amountPaid
	if reference != nil && *reference != "" {
		s.paymentReference = reference
	}
	s.updatedAt = now
	return nil
}

func (s *Subscription) SetAutoRenew(autoRenew bool, now time.Time) {
	s.autoRenew = autoRenew
	s.updatedAt = now
}

// Activate moves the subscription to active and stamps activatedAt. Calling
// it on an active subscription restamps; callers that must not restamp check
// IsPending first.
func (s *Subscription) Activate(now time.Time) error {
	if !s.status.CanTransitionTo(vo.StatusActive) {
		return ErrInvalidTransition(s.status.String(), vo.StatusActive.String())
	}
	s.status = vo.StatusActive
	s.activatedAt = &now
	s.updatedAt = now
	return nil
}

// Cancel is valid from any non-terminal state.
func (s *Subscription) Cancel(now time.Time) error {
	if !s.status.CanTransitionTo(vo.StatusCancelled) {
		return ErrInvalidTransition(s.status.String(), vo.StatusCancelled.String())
	}
	s.status = vo.StatusCancelled
	s.cancelledAt = &now
	s.updatedAt = now
	return nil
}

// IsActive is true while the status is active and today lies within the
// period. It never mutates the status.
func (s *Subscription) IsActive(today time.Time) bool {
	today = biztime.TruncateDate(today)
	return s.status == vo.StatusActive &&
		!today.Before(s.startDate) &&
		!today.After(s.endDate)
}

// IsExpired reports whether the period is over, whatever the stored status.
func (s *Subscription) IsExpired(today time.Time) bool {
	return s.endDate.Before(biztime.TruncateDate(today))
}

// DaysUntilExpiry is the number of days left in the period, never negative.
func (s *Subscription) DaysUntilExpiry(today time.Time) int {
	days := biztime.DaysBetween(today, s.endDate)
	if days < 0 {
		return 0
	}
	return days
}

// ApplyPassiveExpiry moves an active subscription whose end date has passed
// to expired. It is the only automatic transition and runs before every
// write. Reports whether the status changed.
func (s *Subscription) ApplyPassiveExpiry(today time.Time) bool {
	if s.status != vo.StatusActive || !s.IsExpired(today) {
		return false
	}
	s.status = vo.StatusExpired
	return true
}
