package usecases

import (
	"context"
	"fmt"

	"github.com/memberhub/memberhub/internal/domain/credential"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// ExpireCredentialsUseCase flags overdue cards in bulk. Reads refresh the
// flag anyway; this keeps reports and counts current.
type ExpireCredentialsUseCase struct {
	cardRepo credential.Repository
	clock    biztime.Clock
	logger   logger.Interface
}

// NewExpireCredentialsUseCase creates a new use case.
func NewExpireCredentialsUseCase(cardRepo credential.Repository, clock biztime.Clock, logger logger.Interface) *ExpireCredentialsUseCase {
	return &ExpireCredentialsUseCase{cardRepo: cardRepo, clock: clock, logger: logger}
}

func (uc *ExpireCredentialsUseCase) Execute(ctx context.Context) (int, error) {
	n, err := uc.cardRepo.ExpireOverdue(ctx, uc.clock.Today())
	if err != nil {
		return 0, fmt.Errorf("failed to expire id cards: %w", err)
	}
	if n > 0 {
		uc.logger.Infow("id cards expired", "count", n)
	}
	return int(n), nil
}
