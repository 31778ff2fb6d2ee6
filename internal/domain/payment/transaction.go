package payment

import (
	"fmt"
	"net/mail"
	"time"

	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	"github.com/memberhub/memberhub/internal/shared/id"
)

// Transaction records one attempted external charge. Its reference is the
// join key with the gateway. Once successful it is never modified again.
type Transaction struct {
	id                    uint
	reference             string
	provider              vo.Provider
	purpose               vo.Purpose
	status                vo.TransactionStatus
	userID                *uint
	payerEmail            string
	subscriptionPaymentID *uint
	money                 vo.Money
	gatewayReference      *string
	response              map[string]any
	verifiedAt            *time.Time
	createdAt             time.Time
	updatedAt             time.Time
}

// NewTransaction creates a pending transaction with a fresh reference.
// userID is nil for anonymous donations.
func NewTransaction(provider vo.Provider, purpose vo.Purpose, userID *uint, payerEmail string, money vo.Money, now time.Time) (*Transaction, error) {
	if !purpose.IsValid() {
		return nil, fmt.Errorf("invalid transaction purpose: %s", purpose)
	}
	if !money.IsPositive() {
		return nil, fmt.Errorf("transaction amount must be positive")
	}
	if _, err := mail.ParseAddress(payerEmail); err != nil {
		return nil, fmt.Errorf("invalid payer email: %w", err)
	}
	if purpose != vo.PurposeDonation && (userID == nil || *userID == 0) {
		return nil, fmt.Errorf("user is required for %s payments", purpose)
	}

	return &Transaction{
		reference:  id.NewReference(),
		provider:   provider,
		purpose:    purpose,
		status:     vo.StatusPending,
		userID:     userID,
		payerEmail: payerEmail,
		money:      money,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructTransaction rebuilds a Transaction from persisted state.
func ReconstructTransaction(
	id uint,
	reference string,
	provider vo.Provider,
	purpose vo.Purpose,
	status vo.TransactionStatus,
	userID *uint,
	payerEmail string,
	subscriptionPaymentID *uint,
	money vo.Money,
	gatewayReference *string,
	response map[string]any,
	verifiedAt *time.Time,
	createdAt, updatedAt time.Time,
) (*Transaction, error) {
	if id == 0 {
		return nil, fmt.Errorf("transaction ID cannot be zero")
	}
	if reference == "" {
		return nil, fmt.Errorf("transaction reference is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid transaction status: %s", status)
	}
	return &Transaction{
		id:                    id,
		reference:             reference,
		provider:              provider,
		purpose:               purpose,
		status:                status,
		userID:                userID,
		payerEmail:            payerEmail,
		subscriptionPaymentID: subscriptionPaymentID,
		money:                 money,
		gatewayReference:      gatewayReference,
		response:              response,
		verifiedAt:            verifiedAt,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}, nil
}

func (t *Transaction) ID() uint                     { return t.id }
func (t *Transaction) Reference() string            { return t.reference }
func (t *Transaction) Provider() vo.Provider        { return t.provider }
func (t *Transaction) Purpose() vo.Purpose          { return t.purpose }
func (t *Transaction) Status() vo.TransactionStatus { return t.status }
func (t *Transaction) UserID() *uint                { return t.userID }
func (t *Transaction) PayerEmail() string           { return t.payerEmail }
func (t *Transaction) SubscriptionPaymentID() *uint { return t.subscriptionPaymentID }
func (t *Transaction) Money() vo.Money              { return t.money }
func (t *Transaction) GatewayReference() *string    { return t.gatewayReference }
func (t *Transaction) Response() map[string]any     { return t.response }
func (t *Transaction) VerifiedAt() *time.Time       { return t.verifiedAt }
func (t *Transaction) CreatedAt() time.Time         { return t.createdAt }
func (t *Transaction) UpdatedAt() time.Time         { return t.updatedAt }

func (t *Transaction) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("transaction ID already set")
	}
	t.id = id
	return nil
}

// LinkSubscriptionPayment ties the transaction to the subscription payment it settles.
func (t *Transaction) LinkSubscriptionPayment(paymentID uint) error {
	if t.purpose != vo.PurposeSubscription {
		return fmt.Errorf("only subscription transactions link to a subscription payment")
	}
	t.subscriptionPaymentID = &paymentID
	return nil
}

// SetGatewayReference stores the provider-side identifier returned on initiation.
func (t *Transaction) SetGatewayReference(ref string, now time.Time) {
	if ref == "" {
		return
	}
	t.gatewayReference = &ref
	t.updatedAt = now
}

// ValidatePaidAmount compares what the gateway reports against what was charged.
func (t *Transaction) ValidatePaidAmount(paid vo.Money) error {
	if !t.money.Equals(paid) {
		return fmt.Errorf("%w: expected %s, got %s", ErrAmountMismatch, t.money, paid)
	}
	return nil
}

// MarkSucceeded records the transaction as paid. It is accepted from pending
// and from failed, since a declined payer may retry on the same reference.
func (t *Transaction) MarkSucceeded(response map[string]any, now time.Time) error {
	return t.transition(vo.StatusSuccess, response, now)
}

// MarkFailed records a pending transaction as failed.
func (t *Transaction) MarkFailed(response map[string]any, now time.Time) error {
	return t.transition(vo.StatusFailed, response, now)
}

func (t *Transaction) transition(status vo.TransactionStatus, response map[string]any, now time.Time) error {
	if !status.CanFollow(t.status) {
		return fmt.Errorf("%w: %s", ErrTransactionFinal, t.status)
	}
	t.status = status
	t.response = response
	t.verifiedAt = &now
	t.updatedAt = now
	return nil
}
