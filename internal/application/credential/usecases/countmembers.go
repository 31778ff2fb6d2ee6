package usecases

import (
	"context"
	"fmt"

	"github.com/memberhub/memberhub/internal/application/credential/dto"
	"github.com/memberhub/memberhub/internal/domain/credential"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// CountMembersUseCase reports total and active card counts.
type CountMembersUseCase struct {
	cardRepo credential.Repository
	logger   logger.Interface
}

// NewCountMembersUseCase creates a new use case.
func NewCountMembersUseCase(cardRepo credential.Repository, logger logger.Interface) *CountMembersUseCase {
	return &CountMembersUseCase{cardRepo: cardRepo, logger: logger}
}

func (uc *CountMembersUseCase) Execute(ctx context.Context) (*dto.MemberCountDTO, error) {
	total, active, err := uc.cardRepo.CountByActive(ctx)
	if err != nil {
		uc.logger.Errorw("failed to count members", "error", err)
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	return &dto.MemberCountDTO{Total: total, Active: active, Inactive: total - active}, nil
}
