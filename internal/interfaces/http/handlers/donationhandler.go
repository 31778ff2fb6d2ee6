package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/memberhub/memberhub/internal/application/payment/usecases"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	"github.com/memberhub/memberhub/internal/shared/logger"
	"github.com/memberhub/memberhub/internal/shared/utils"
)

// DonationHandler serves the public donation flow. Donors need no account.
type DonationHandler struct {
	initiateUseCase initiateDonationUseCase
	verifyUseCase   verifyPaymentUseCase
	logger          logger.Interface
}

func NewDonationHandler(initiateUC initiateDonationUseCase, verifyUC verifyPaymentUseCase, logger logger.Interface) *DonationHandler {
	return &DonationHandler{
		initiateUseCase: initiateUC,
		verifyUseCase:   verifyUC,
		logger:          logger,
	}
}

type InitiateDonationRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
	Email       string `json:"email" binding:"required,email"`
	Provider    string `json:"provider"`
	RedirectURL string `json:"redirect_url" binding:"required,url"`
}

func (h *DonationHandler) InitiateDonation(c *gin.Context) {
	var req InitiateDonationRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.initiateUseCase.Execute(c.Request.Context(), usecases.InitiateDonationCommand{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Email:       req.Email,
		Provider:    req.Provider,
		RedirectURL: req.RedirectURL,
		UserID:      optionalUserID(c),
	})
	if err != nil {
		h.logger.Errorw("failed to initiate donation", "error", err, "email", req.Email)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Donation initiated")
}

func (h *DonationHandler) VerifyDonation(c *gin.Context) {
	result, err := h.verifyUseCase.Execute(c.Request.Context(), usecases.VerifyPaymentCommand{
		Reference: c.Param("reference"),
		Purpose:   vo.PurposeDonation,
	})
	if err != nil {
		h.logger.Warnw("failed to verify donation", "error", err, "reference", c.Param("reference"))
		utils.ErrorResponseWithError(c, err)
		return
	}

	paymentStatusResponse(c, result)
}
