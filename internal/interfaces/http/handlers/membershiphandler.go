package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/memberhub/memberhub/internal/application/credential/dto"
	"github.com/memberhub/memberhub/internal/shared/logger"
	"github.com/memberhub/memberhub/internal/shared/utils"
)

type grantDemoMembershipUseCase interface {
	Execute(ctx context.Context, userID uint) (*dto.IDCardDTO, error)
}

type getMyCardUseCase interface {
	Execute(ctx context.Context, userID uint) (*dto.IDCardDTO, error)
}

type verifyIDNumberUseCase interface {
	Execute(ctx context.Context, idNumber string) (*dto.VerificationDTO, error)
}

type countMembersUseCase interface {
	Execute(ctx context.Context) (*dto.MemberCountDTO, error)
}

// MembershipHandler exposes the ID card: the member's own card, the demo
// grant and the public verification lookup.
type MembershipHandler struct {
	grantDemoUseCase grantDemoMembershipUseCase
	getMyCardUseCase getMyCardUseCase
	verifyUseCase    verifyIDNumberUseCase
	countUseCase     countMembersUseCase
	logger           logger.Interface
}

func NewMembershipHandler(
	grantDemoUC grantDemoMembershipUseCase,
	getMyCardUC getMyCardUseCase,
	verifyUC verifyIDNumberUseCase,
	countUC countMembersUseCase,
	logger logger.Interface,
) *MembershipHandler {
	return &MembershipHandler{
		grantDemoUseCase: grantDemoUC,
		getMyCardUseCase: getMyCardUC,
		verifyUseCase:    verifyUC,
		countUseCase:     countUC,
		logger:           logger,
	}
}

func (h *MembershipHandler) GrantDemoMembership(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	card, err := h.grantDemoUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to grant demo membership", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Membership activated", card)
}

func (h *MembershipHandler) GetMyCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	card, err := h.getMyCardUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to get id card", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", card)
}

// VerifyIDNumber answers 200 for unknown numbers too; the body says whether
// the card is valid.
func (h *MembershipHandler) VerifyIDNumber(c *gin.Context) {
	idNumber := strings.TrimSpace(c.Param("id_number"))
	if idNumber == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "id number is required")
		return
	}

	result, err := h.verifyUseCase.Execute(c.Request.Context(), idNumber)
	if err != nil {
		h.logger.Errorw("failed to verify id number", "error", err, "id_number", idNumber)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *MembershipHandler) CountMembers(c *gin.Context) {
	result, err := h.countUseCase.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to count members", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
