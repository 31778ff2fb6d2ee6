package usecases

import (
	"context"
	"fmt"

	"github.com/memberhub/memberhub/internal/application/subscription/dto"
	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// ListSubscriptionHistoryQuery pages a member's subscriptions.
type ListSubscriptionHistoryQuery struct {
	UserID   uint
	Page     int
	PageSize int
}

// ListSubscriptionHistoryResult is one page of history.
type ListSubscriptionHistoryResult struct {
	Subscriptions []*dto.SubscriptionDTO
	Total         int64
}

// ListSubscriptionHistoryUseCase lists a member's subscriptions.
type ListSubscriptionHistoryUseCase struct {
	subRepo subscription.Repository
	clock   biztime.Clock
	logger  logger.Interface
}

// NewListSubscriptionHistoryUseCase creates a new use case.
func NewListSubscriptionHistoryUseCase(subRepo subscription.Repository, clock biztime.Clock, logger logger.Interface) *ListSubscriptionHistoryUseCase {
	return &ListSubscriptionHistoryUseCase{subRepo: subRepo, clock: clock, logger: logger}
}

// Execute lists the user's subscriptions, newest first.
func (uc *ListSubscriptionHistoryUseCase) Execute(ctx context.Context, query ListSubscriptionHistoryQuery) (*ListSubscriptionHistoryResult, error) {
	subs, total, err := uc.subRepo.ListByUserID(ctx, query.UserID, query.Page, query.PageSize)
	if err != nil {
		uc.logger.Errorw("failed to list subscriptions", "error", err, "user_id", query.UserID)
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	today := uc.clock.Today()
	for _, sub := range subs {
		// Reported status must agree with today even before the sweep runs.
		sub.ApplyPassiveExpiry(today)
	}

	return &ListSubscriptionHistoryResult{
		Subscriptions: dto.ToSubscriptionDTOList(subs, today),
		Total:         total,
	}, nil
}
