package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/memberhub/memberhub/internal/application/subscription/dto"
	"github.com/memberhub/memberhub/internal/domain/subscription"
	vo "github.com/memberhub/memberhub/internal/domain/subscription/valueobjects"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/db"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/id"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// RecordSubscriptionPaymentCommand records a payment taken outside the
// online gateways.
type RecordSubscriptionPaymentCommand struct {
	SubscriptionID uint
	Amount         string
	Method         string
	// Reference defaults to a generated one.
	Reference string
	Notes     string
	MarkPaid  bool
}

// RecordSubscriptionPaymentUseCase records a payment taken outside the
// gateways, such as cash or a bank transfer.
type RecordSubscriptionPaymentUseCase struct {
	subRepo     subscription.Repository
	paymentRepo subscription.PaymentRepository
	txMgr       db.Transactor
	clock       biztime.Clock
	logger      logger.Interface
}

// NewRecordSubscriptionPaymentUseCase creates a new use case.
func NewRecordSubscriptionPaymentUseCase(
	subRepo subscription.Repository,
	paymentRepo subscription.PaymentRepository,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *RecordSubscriptionPaymentUseCase {
	return &RecordSubscriptionPaymentUseCase{
		subRepo:     subRepo,
		paymentRepo: paymentRepo,
		txMgr:       txMgr,
		clock:       clock,
		logger:      logger,
	}
}

func (uc *RecordSubscriptionPaymentUseCase) Execute(ctx context.Context, cmd RecordSubscriptionPaymentCommand) (*dto.PaymentRecordedDTO, error) {
	amount, err := decimal.NewFromString(cmd.Amount)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid amount", cmd.Amount)
	}
	method, err := vo.NewPaymentMethod(cmd.Method)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if method.IsGateway() {
		return nil, apperrors.NewValidationError("gateway payments are recorded by the payment flow", method.String())
	}

	reference := strings.TrimSpace(cmd.Reference)
	if reference == "" {
		reference = id.NewReference()
	}
	if _, err := uc.paymentRepo.GetByReference(ctx, reference); err == nil {
		return nil, apperrors.NewConflictError("payment reference already exists", reference)
	} else if !errors.Is(err, subscription.ErrPaymentNotFound) {
		return nil, fmt.Errorf("failed to check payment reference: %w", err)
	}

	sub, err := loadSubscription(ctx, uc.subRepo, cmd.SubscriptionID, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	payment, err := subscription.NewPayment(sub.ID(), amount, method, reference, now)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	payment.SetNotes(cmd.Notes)

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.paymentRepo.Create(txCtx, payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		if !cmd.MarkPaid {
			return nil
		}

		activated, err := payment.MarkAsPaid(sub, now)
		if err != nil {
			return err
		}
		if err := uc.paymentRepo.Update(txCtx, payment); err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}
		if !activated {
			return nil
		}
		if err := sub.SetPaymentDetails(method, amount, &reference, now); err != nil {
			return err
		}
		return uc.subRepo.Update(txCtx, sub)
	})
	if err != nil {
		uc.logger.Errorw("failed to record subscription payment", "error", err, "subscription_id", cmd.SubscriptionID)
		if apperrors.IsDuplicateError(err) {
			return nil, apperrors.NewConflictError("payment reference already exists", reference)
		}
		return nil, err
	}

	uc.logger.Infow("subscription payment recorded",
		"subscription_id", sub.ID(),
		"payment_id", payment.ID(),
		"method", method,
		"paid", cmd.MarkPaid,
		"subscription_status", sub.Status(),
	)
	return &dto.PaymentRecordedDTO{
		Payment:      dto.ToPaymentDTO(payment),
		Subscription: dto.ToSubscriptionDTO(sub, uc.clock.Today()),
	}, nil
}
