package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/memberhub/memberhub/internal/application/subscription/dto"
	"github.com/memberhub/memberhub/internal/domain/member"
	"github.com/memberhub/memberhub/internal/domain/subscription"
	vo "github.com/memberhub/memberhub/internal/domain/subscription/valueobjects"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// CreateSubscriptionCommand opens a pending subscription on a plan.
type CreateSubscriptionCommand struct {
	UserID uint
	PlanID uint
	// StartDate defaults to today.
	StartDate        *time.Time
	PaymentMethod    string
	AmountPaid       string
	PaymentReference string
	AutoRenew        bool
}

// CreateSubscriptionUseCase creates pending subscriptions.
type CreateSubscriptionUseCase struct {
	subRepo    subscription.Repository
	planRepo   subscription.PlanRepository
	memberRepo member.Repository
	policy     subscription.CutoffPolicy
	clock      biztime.Clock
	logger     logger.Interface
}

// NewCreateSubscriptionUseCase creates a new use case.
func NewCreateSubscriptionUseCase(
	subRepo subscription.Repository,
	planRepo subscription.PlanRepository,
	memberRepo member.Repository,
	policy subscription.CutoffPolicy,
	clock biztime.Clock,
	logger logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		subRepo:    subRepo,
		planRepo:   planRepo,
		memberRepo: memberRepo,
		policy:     policy,
		clock:      clock,
		logger:     logger,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	if _, err := uc.memberRepo.GetByID(ctx, cmd.UserID); err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return nil, apperrors.NewNotFoundError("member not found")
		}
		uc.logger.Errorw("failed to get member", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	plan, err := uc.planRepo.GetByID(ctx, cmd.PlanID)
	if err != nil {
		if errors.Is(err, subscription.ErrPlanNotFound) {
			return nil, apperrors.NewNotFoundError("subscription plan not found")
		}
		uc.logger.Errorw("failed to get plan", "error", err, "plan_id", cmd.PlanID)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if !plan.IsActive() {
		return nil, apperrors.NewValidationError("subscription plan is not active")
	}

	now := uc.clock.Now()
	start := uc.clock.Today()
	if cmd.StartDate != nil {
		start = *cmd.StartDate
	}

	sub, err := subscription.NewSubscription(cmd.UserID, plan.ID(), start, uc.policy, now)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if cmd.PaymentMethod != "" {
		method, err := vo.NewPaymentMethod(cmd.PaymentMethod)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		amount := decimal.Zero
		if cmd.AmountPaid != "" {
			if amount, err = decimal.NewFromString(cmd.AmountPaid); err != nil {
				return nil, apperrors.NewValidationError("invalid amount_paid", cmd.AmountPaid)
			}
		}
		var ref *string
		if r := strings.TrimSpace(cmd.PaymentReference); r != "" {
			ref = &r
		}
		if err := sub.SetPaymentDetails(method, amount, ref, now); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	sub.SetAutoRenew(cmd.AutoRenew, now)

	if err := uc.subRepo.Create(ctx, sub); err != nil {
		if apperrors.IsDuplicateError(err) {
			return nil, apperrors.NewConflictError("payment reference already exists")
		}
		uc.logger.Errorw("failed to create subscription", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	uc.logger.Infow("subscription created",
		"subscription_id", sub.ID(),
		"user_id", sub.UserID(),
		"plan_id", sub.PlanID(),
		"start_date", biztime.FormatDate(sub.StartDate()),
		"end_date", biztime.FormatDate(sub.EndDate()),
	)
	return dto.ToSubscriptionDTO(sub, uc.clock.Today()), nil
}
