package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/memberhub/memberhub/internal/application/notification"
	"github.com/memberhub/memberhub/internal/application/payment/paymentgateway"
	"github.com/memberhub/memberhub/internal/domain/payment"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/db"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/goroutine"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// Outcome classifies what a reconciliation did.
type Outcome string

const (
	OutcomeSucceeded        Outcome = "succeeded"
	OutcomeAlreadyProcessed Outcome = "already_processed"
	OutcomeFailed           Outcome = "failed"
	OutcomePending          Outcome = "pending"
	OutcomeNotFound         Outcome = "not_found"
)

const (
	msgSucceeded        = "Payment verified successfully"
	msgAlreadyProcessed = "Transaction already successful."
	msgFailed           = "Payment not successful."
	msgPending          = "Payment still processing"
	msgNotFound         = "Transaction not found"
	msgGatewayError     = "Unable to verify payment at the moment"
)

const notifyTimeout = 30 * time.Second

// ReconcileResult is what every verification path reports back.
type ReconcileResult struct {
	Outcome     Outcome
	Message     string
	Reference   string
	Purpose     vo.Purpose
	Status      vo.TransactionStatus
	Amount      string
	Currency    string
	UserID      *uint
	Transaction *payment.Transaction
}

// IsPaid reports whether the transaction ended up successful, whether in this
// call or an earlier one.
func (r *ReconcileResult) IsPaid() bool {
	return r.Outcome == OutcomeSucceeded || r.Outcome == OutcomeAlreadyProcessed
}

// ReconcileOptions sets how long a successful payment keeps the id card valid.
type ReconcileOptions struct {
	ValidityDays int
	// UsePlanDuration makes subscription payments extend the card by the
	// plan duration instead of ValidityDays.
	UsePlanDuration bool
}

// ReconcileUseCase turns a gateway verdict into local state. Poll, webhook
// and the stale sweep all go through Execute so a charge is applied at most
// once no matter which path arrives first.
type ReconcileUseCase struct {
	txnRepo     payment.TransactionRepository
	paymentRepo subscription.PaymentRepository
	subRepo     subscription.Repository
	planRepo    subscription.PlanRepository
	gateways    *paymentgateway.Registry
	activator   CredentialActivator
	txMgr       db.Transactor
	notifier    notification.Notifier
	clock       biztime.Clock
	opts        ReconcileOptions
	logger      logger.Interface
}

// NewReconcileUseCase creates a new ReconcileUseCase. ValidityDays defaults
// to 30 when unset.
func NewReconcileUseCase(
	txnRepo payment.TransactionRepository,
	paymentRepo subscription.PaymentRepository,
	subRepo subscription.Repository,
	planRepo subscription.PlanRepository,
	gateways *paymentgateway.Registry,
	activator CredentialActivator,
	txMgr db.Transactor,
	clock biztime.Clock,
	opts ReconcileOptions,
	logger logger.Interface,
) *ReconcileUseCase {
	if opts.ValidityDays <= 0 {
		opts.ValidityDays = 30
	}
	return &ReconcileUseCase{
		txnRepo:     txnRepo,
		paymentRepo: paymentRepo,
		subRepo:     subRepo,
		planRepo:    planRepo,
		gateways:    gateways,
		activator:   activator,
		txMgr:       txMgr,
		notifier:    notification.NewNopNotifier(),
		clock:       clock,
		opts:        opts,
		logger:      logger,
	}
}

// SetNotifier sets the notifier used after a transaction is finalized.
func (uc *ReconcileUseCase) SetNotifier(n notification.Notifier) {
	uc.notifier = n
}

// Execute reconciles the transaction identified by reference. A gateway
// failure is returned as a gateway AppError and changes nothing.
func (uc *ReconcileUseCase) Execute(ctx context.Context, reference string) (*ReconcileResult, error) {
	txn, err := uc.txnRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, payment.ErrTransactionNotFound) {
			return &ReconcileResult{Outcome: OutcomeNotFound, Message: msgNotFound, Reference: reference}, nil
		}
		uc.logger.Errorw("failed to get transaction", "error", err, "reference", reference)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	// A declined charge is verified again: the payer may have retried the
	// same reference and the gateway can now report success.
	if txn.Status().IsSuccess() {
		return newResult(OutcomeAlreadyProcessed, msgAlreadyProcessed, txn), nil
	}

	gw, err := uc.gateways.Get(txn.Provider())
	if err != nil {
		uc.logger.Errorw("no gateway for transaction provider", "error", err, "reference", reference, "provider", txn.Provider())
		return nil, apperrors.NewGatewayError(msgGatewayError).WithCause(err)
	}

	// The gateway call happens before any write so a slow provider never
	// holds a database transaction open.
	verdict, err := gw.Verify(ctx, paymentgateway.VerifyRequest{
		Reference:        txn.Reference(),
		GatewayReference: deref(txn.GatewayReference()),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			uc.logger.Warnw("gateway verification timed out", "reference", reference, "provider", txn.Provider())
			return newResult(OutcomePending, msgPending, txn), nil
		}
		uc.logger.Errorw("failed to verify payment with gateway", "error", err, "reference", reference, "provider", txn.Provider())
		return nil, apperrors.NewGatewayError(msgGatewayError).WithCause(err)
	}

	raw := verdict.RawPayload
	if raw == nil {
		raw = map[string]any{}
	}

	switch verdict.Status {
	case paymentgateway.StatusSuccess:
		if verdict.Amount != nil {
			if err := txn.ValidatePaidAmount(*verdict.Amount); err != nil {
				uc.logger.Warnw("paid amount does not match transaction",
					"error", err,
					"reference", reference,
					"expected", txn.Money().String(),
					"paid", verdict.Amount.String(),
				)
				return uc.applyFailure(ctx, txn, withReconcileError(raw, err))
			}
		}
		return uc.applySuccess(ctx, txn, raw)
	case paymentgateway.StatusFailed:
		return uc.applyFailure(ctx, txn, raw)
	default:
		uc.logger.Debugw("payment still processing", "reference", reference, "provider", txn.Provider())
		return newResult(OutcomePending, msgPending, txn), nil
	}
}

type successEffects struct {
	subscriptionActivated bool
	subscriptionID        uint
	cardDays              int
}

func (uc *ReconcileUseCase) applySuccess(ctx context.Context, txn *payment.Transaction, raw map[string]any) (*ReconcileResult, error) {
	now := uc.clock.Now()
	if err := txn.MarkSucceeded(raw, now); err != nil {
		return nil, fmt.Errorf("failed to mark transaction succeeded: %w", err)
	}

	var (
		won     bool
		effects successEffects
	)
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		won, err = uc.txnRepo.Finalize(txCtx, txn)
		if err != nil {
			return fmt.Errorf("failed to finalize transaction: %w", err)
		}
		if !won {
			return nil
		}

		switch txn.Purpose() {
		case vo.PurposeSubscription:
			effects, err = uc.settleSubscriptionPayment(txCtx, txn, raw, now)
			if err != nil {
				return err
			}
		case vo.PurposeMembership:
			effects.cardDays = uc.opts.ValidityDays
		}

		if effects.cardDays > 0 && txn.UserID() != nil {
			if err := uc.activator.ActivateForDays(txCtx, *txn.UserID(), effects.cardDays); err != nil {
				return fmt.Errorf("failed to activate id card: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to apply successful payment", "error", err, "reference", txn.Reference())
		return nil, err
	}

	if !won {
		return uc.replay(ctx, txn.Reference())
	}

	uc.logger.Infow("payment reconciled",
		"reference", txn.Reference(),
		"provider", txn.Provider(),
		"purpose", txn.Purpose(),
		"amount", txn.Money().String(),
		"subscription_activated", effects.subscriptionActivated,
		"card_days", effects.cardDays,
	)

	event := notification.EventPaymentSucceeded
	switch {
	case txn.Purpose() == vo.PurposeDonation:
		event = notification.EventDonationReceived
	case effects.subscriptionActivated:
		event = notification.EventSubscriptionActivated
	}
	uc.notify(txn, event, effects)

	return newResult(OutcomeSucceeded, msgSucceeded, txn), nil
}

func (uc *ReconcileUseCase) settleSubscriptionPayment(ctx context.Context, txn *payment.Transaction, raw map[string]any, now time.Time) (successEffects, error) {
	var effects successEffects
	if txn.SubscriptionPaymentID() == nil {
		uc.logger.Warnw("subscription transaction has no linked payment", "reference", txn.Reference())
		return effects, nil
	}

	sp, err := uc.paymentRepo.GetByID(ctx, *txn.SubscriptionPaymentID())
	if err != nil {
		return effects, fmt.Errorf("failed to get subscription payment: %w", err)
	}
	sub, err := uc.subRepo.GetByID(ctx, sp.SubscriptionID())
	if err != nil {
		return effects, fmt.Errorf("failed to get subscription: %w", err)
	}

	activated, err := sp.MarkAsPaid(sub, now)
	if err != nil {
		return effects, fmt.Errorf("failed to mark subscription payment paid: %w", err)
	}
	sp.SetGatewayResponse(raw, now)
	if err := uc.paymentRepo.Update(ctx, sp); err != nil {
		return effects, fmt.Errorf("failed to update subscription payment: %w", err)
	}

	if activated {
		ref := txn.Reference()
		if err := sub.SetPaymentDetails(sp.Method(), sp.Amount(), &ref, now); err != nil {
			return effects, fmt.Errorf("failed to set subscription payment details: %w", err)
		}
		if err := uc.subRepo.Update(ctx, sub); err != nil {
			return effects, fmt.Errorf("failed to update subscription: %w", err)
		}
	}

	effects.subscriptionActivated = activated
	effects.subscriptionID = sub.ID()
	effects.cardDays = uc.opts.ValidityDays
	if uc.opts.UsePlanDuration {
		plan, err := uc.planRepo.GetByID(ctx, sub.PlanID())
		if err != nil {
			return effects, fmt.Errorf("failed to get plan: %w", err)
		}
		effects.cardDays = plan.DurationDays()
	}
	return effects, nil
}

func (uc *ReconcileUseCase) applyFailure(ctx context.Context, txn *payment.Transaction, raw map[string]any) (*ReconcileResult, error) {
	if txn.Status().IsFailed() {
		return newResult(OutcomeFailed, msgFailed, txn), nil
	}

	now := uc.clock.Now()
	if err := txn.MarkFailed(raw, now); err != nil {
		return nil, fmt.Errorf("failed to mark transaction failed: %w", err)
	}

	var won bool
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		won, err = uc.txnRepo.Finalize(txCtx, txn)
		if err != nil {
			return fmt.Errorf("failed to finalize transaction: %w", err)
		}
		if !won || txn.SubscriptionPaymentID() == nil {
			return nil
		}

		sp, err := uc.paymentRepo.GetByID(txCtx, *txn.SubscriptionPaymentID())
		if err != nil {
			return fmt.Errorf("failed to get subscription payment: %w", err)
		}
		if err := sp.MarkAsFailed(now); err != nil {
			return fmt.Errorf("failed to mark subscription payment failed: %w", err)
		}
		sp.SetGatewayResponse(raw, now)
		return uc.paymentRepo.Update(txCtx, sp)
	})
	if err != nil {
		uc.logger.Errorw("failed to apply failed payment", "error", err, "reference", txn.Reference())
		return nil, err
	}

	if !won {
		return uc.replay(ctx, txn.Reference())
	}

	uc.logger.Infow("payment marked failed", "reference", txn.Reference(), "provider", txn.Provider(), "purpose", txn.Purpose())
	uc.notify(txn, notification.EventPaymentFailed, successEffects{})

	return newResult(OutcomeFailed, msgFailed, txn), nil
}

// replay reports the state written by whichever caller finalized the
// transaction first.
func (uc *ReconcileUseCase) replay(ctx context.Context, reference string) (*ReconcileResult, error) {
	current, err := uc.txnRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to reload transaction: %w", err)
	}

	uc.logger.Infow("transaction finalized concurrently", "reference", reference, "status", current.Status())

	if current.Status().IsSuccess() {
		return newResult(OutcomeAlreadyProcessed, msgAlreadyProcessed, current), nil
	}
	return newResult(OutcomeFailed, msgFailed, current), nil
}

func (uc *ReconcileUseCase) notify(txn *payment.Transaction, event notification.Event, effects successEffects) {
	to := notification.Recipient{Email: txn.PayerEmail()}
	payload := notification.Payload{
		"reference": txn.Reference(),
		"purpose":   txn.Purpose().String(),
		"provider":  txn.Provider().String(),
		"amount":    txn.Money().Amount(),
		"currency":  txn.Money().Currency(),
	}
	if effects.subscriptionID != 0 {
		payload["subscription_id"] = effects.subscriptionID
	}
	if effects.cardDays > 0 {
		payload["validity_days"] = effects.cardDays
	}

	notifier := uc.notifier
	log := uc.logger
	goroutine.SafeGoWithTimeout(log, "payment-notification", notifyTimeout, func(ctx context.Context) {
		if err := notifier.Send(ctx, event, to, payload); err != nil {
			log.Warnw("failed to send payment notification", "error", err, "reference", payload["reference"], "event", event)
		}
	})
}

func newResult(outcome Outcome, message string, txn *payment.Transaction) *ReconcileResult {
	return &ReconcileResult{
		Outcome:     outcome,
		Message:     message,
		Reference:   txn.Reference(),
		Purpose:     txn.Purpose(),
		Status:      txn.Status(),
		Amount:      txn.Money().Amount().StringFixed(2),
		Currency:    txn.Money().Currency(),
		UserID:      txn.UserID(),
		Transaction: txn,
	}
}

func withReconcileError(raw map[string]any, err error) map[string]any {
	out := make(map[string]any, len(raw)+1)
	for k, v := range raw {
		out[k] = v
	}
	out["reconcile_error"] = err.Error()
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
