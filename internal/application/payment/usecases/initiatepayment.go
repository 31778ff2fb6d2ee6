package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/memberhub/memberhub/internal/application/payment/paymentgateway"
	"github.com/memberhub/memberhub/internal/domain/member"
	"github.com/memberhub/memberhub/internal/domain/payment"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	"github.com/memberhub/memberhub/internal/domain/subscription"
	subvo "github.com/memberhub/memberhub/internal/domain/subscription/valueobjects"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/db"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// InitiatePaymentCommand starts a membership or subscription checkout.
type InitiatePaymentCommand struct {
	Purpose     vo.Purpose
	UserID      uint
	Provider    string
	RedirectURL string
	// SubscriptionID is required for subscription payments.
	SubscriptionID uint
}

// InitiatePaymentUseCase opens a gateway checkout for a member paying either
// the membership fee or a pending subscription.
type InitiatePaymentUseCase struct {
	checkout
	memberRepo    member.Repository
	subRepo       subscription.Repository
	planRepo      subscription.PlanRepository
	gateways      *paymentgateway.Registry
	membershipFee vo.Money
}

// NewInitiatePaymentUseCase creates a new use case.
func NewInitiatePaymentUseCase(
	txnRepo payment.TransactionRepository,
	paymentRepo subscription.PaymentRepository,
	subRepo subscription.Repository,
	planRepo subscription.PlanRepository,
	memberRepo member.Repository,
	gateways *paymentgateway.Registry,
	txMgr db.Transactor,
	clock biztime.Clock,
	membershipFee vo.Money,
	logger logger.Interface,
) *InitiatePaymentUseCase {
	return &InitiatePaymentUseCase{
		checkout: checkout{
			txnRepo:     txnRepo,
			paymentRepo: paymentRepo,
			txMgr:       txMgr,
			clock:       clock,
			logger:      logger,
		},
		memberRepo:    memberRepo,
		subRepo:       subRepo,
		planRepo:      planRepo,
		gateways:      gateways,
		membershipFee: membershipFee,
	}
}

func (uc *InitiatePaymentUseCase) Execute(ctx context.Context, cmd InitiatePaymentCommand) (*CheckoutResult, error) {
	if err := validateRedirectURL(cmd.RedirectURL); err != nil {
		return nil, err
	}
	gw, err := resolveGateway(uc.gateways, cmd.Provider)
	if err != nil {
		return nil, err
	}

	m, err := uc.memberRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return nil, apperrors.NewNotFoundError("member not found")
		}
		uc.logger.Errorw("failed to get member", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	now := uc.clock.Now()
	userID := cmd.UserID

	switch cmd.Purpose {
	case vo.PurposeMembership:
		txn, err := payment.NewTransaction(gw.Provider(), vo.PurposeMembership, &userID, m.Email, uc.membershipFee, now)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		return uc.open(ctx, gw, txn, nil, cmd.RedirectURL, "Membership fee")

	case vo.PurposeSubscription:
		return uc.subscriptionCheckout(ctx, gw, cmd, m)

	default:
		return nil, apperrors.NewValidationError("unsupported payment purpose", cmd.Purpose.String())
	}
}

func (uc *InitiatePaymentUseCase) subscriptionCheckout(ctx context.Context, gw paymentgateway.Gateway, cmd InitiatePaymentCommand, m *member.Member) (*CheckoutResult, error) {
	if cmd.SubscriptionID == 0 {
		return nil, apperrors.NewValidationError("subscription_id is required")
	}

	sub, err := uc.subRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return nil, apperrors.NewNotFoundError("subscription not found")
		}
		uc.logger.Errorw("failed to get subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	// Someone else's subscription looks the same as a missing one.
	if sub.UserID() != cmd.UserID {
		return nil, apperrors.NewNotFoundError("subscription not found")
	}
	if !sub.IsPending() {
		return nil, apperrors.NewConflictError("subscription is not awaiting payment", sub.Status().String())
	}

	plan, err := uc.planRepo.GetByID(ctx, sub.PlanID())
	if err != nil {
		uc.logger.Errorw("failed to get plan", "error", err, "plan_id", sub.PlanID())
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	amount, err := vo.NewMoney(plan.Price(), uc.membershipFee.Currency())
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	now := uc.clock.Now()
	userID := cmd.UserID
	txn, err := payment.NewTransaction(gw.Provider(), vo.PurposeSubscription, &userID, m.Email, amount, now)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	method, err := subvo.NewPaymentMethod(gw.Provider().String())
	if err != nil {
		return nil, err
	}
	sp, err := subscription.NewPayment(sub.ID(), plan.Price(), method, txn.Reference(), now)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	return uc.open(ctx, gw, txn, sp, cmd.RedirectURL, plan.Name()+" subscription")
}
