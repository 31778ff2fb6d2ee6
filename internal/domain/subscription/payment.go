package subscription

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/memberhub/memberhub/internal/domain/subscription/valueobjects"
)

// Payment is one attempt to pay for a subscription. Several payments may
// reference the same subscription.
type Payment struct {
	id              uint
	subscriptionID  uint
	amount          decimal.Decimal
	method          vo.PaymentMethod
	reference       string
	status          vo.PaymentStatus
	gatewayResponse map[string]any
	notes           string
	paidAt          *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

// NewPayment creates a new pending Payment for a subscription.
func NewPayment(subscriptionID uint, amount decimal.Decimal, method vo.PaymentMethod, reference string, now time.Time) (*Payment, error) {
	if subscriptionID == 0 {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive")
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("payment reference is required")
	}

	return &Payment{
		subscriptionID: subscriptionID,
		amount:         amount,
		method:         method,
		reference:      reference,
		status:         vo.PaymentStatusPending,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructPayment rebuilds a Payment from persisted state.
func ReconstructPayment(
	id, subscriptionID uint,
	amount decimal.Decimal,
	method vo.PaymentMethod,
	reference string,
	status vo.PaymentStatus,
	gatewayResponse map[string]any,
	notes string,
	paidAt *time.Time,
	createdAt, updatedAt time.Time,
) (*Payment, error) {
	if id == 0 {
		return nil, fmt.Errorf("payment ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid payment status: %s", status)
	}
	return &Payment{
		id:              id,
		subscriptionID:  subscriptionID,
		amount:          amount,
		method:          method,
		reference:       reference,
		status:          status,
		gatewayResponse: gatewayResponse,
		notes:           notes,
		paidAt:          paidAt,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func (p *Payment) ID() uint                        { return p.id }
func (p *Payment) SubscriptionID() uint            { return p.subscriptionID }
func (p *Payment) Amount() decimal.Decimal         { return p.amount }
func (p *Payment) Method() vo.PaymentMethod        { return p.method }
func (p *Payment) Reference() string               { return p.reference }
func (p *Payment) Status() vo.PaymentStatus        { return p.status }
func (p *Payment) GatewayResponse() map[string]any { return p.gatewayResponse }
func (p *Payment) Notes() string                   { return p.notes }
func (p *Payment) PaidAt() *time.Time              { return p.paidAt }
func (p *Payment) CreatedAt() time.Time            { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time            { return p.updatedAt }

func (p *Payment) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("payment ID already set")
	}
	p.id = id
	return nil
}

func (p *Payment) SetNotes(notes string) {
	p.notes = notes
}

func (p *Payment) SetGatewayResponse(resp map[string]any, now time.Time) {
	p.gatewayResponse = resp
	p.updatedAt = now
}

// MarkAsPaid completes the payment and activates sub if it is still pending.
// This is the only path that activates a subscription automatically. A
// payment that is already completed is left alone, and a failed one may
// still complete when the charge is retried. Reports whether sub was
// activated.
func (p *Payment) MarkAsPaid(sub *Subscription, now time.Time) (bool, error) {
	if p.status.IsCompleted() {
		return false, nil
	}
	if !p.status.IsPending() && !p.status.IsFailed() {
		return false, fmt.Errorf("%w: cannot complete payment in status %s", ErrInvalidPaymentState, p.status)
	}
	if sub != nil && sub.ID() != p.subscriptionID {
		return false, fmt.Errorf("payment %d does not belong to subscription %d", p.id, sub.ID())
	}

	p.status = vo.PaymentStatusCompleted
	p.paidAt = &now
	p.updatedAt = now

	if sub == nil || !sub.IsPending() {
		return false, nil
	}
	if err := sub.Activate(now); err != nil {
		return false, err
	}
	return true, nil
}

// MarkAsFailed is a no-op for a payment that already failed.
func (p *Payment) MarkAsFailed(now time.Time) error {
	if p.status == vo.PaymentStatusFailed {
		return nil
	}
	if !p.status.IsPending() {
		return fmt.Errorf("%w: cannot fail payment in status %s", ErrInvalidPaymentState, p.status)
	}
	p.status = vo.PaymentStatusFailed
	p.updatedAt = now
	return nil
}

func (p *Payment) MarkAsRefunded(now time.Time) error {
	if !p.status.IsCompleted() {
		return fmt.Errorf("%w: only completed payments can be refunded", ErrInvalidPaymentState)
	}
	p.status = vo.PaymentStatusRefunded
	p.updatedAt = now
	return nil
}
