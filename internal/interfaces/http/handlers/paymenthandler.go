package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/memberhub/memberhub/internal/application/payment/usecases"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	"github.com/memberhub/memberhub/internal/shared/authorization"
	"github.com/memberhub/memberhub/internal/shared/constants"
	"github.com/memberhub/memberhub/internal/shared/logger"
	"github.com/memberhub/memberhub/internal/shared/utils"
)

// maxWebhookBody caps provider deliveries; real payloads are a few KB.
const maxWebhookBody = 1 << 20

// PaymentHandler starts member checkouts, answers verification polls and
// receives provider webhooks.
type PaymentHandler struct {
	initiateUseCase initiatePaymentUseCase
	verifyUseCase   verifyPaymentUseCase
	webhookUseCase  handleWebhookUseCase
	logger          logger.Interface
}

func NewPaymentHandler(
	initiateUC initiatePaymentUseCase,
	verifyUC verifyPaymentUseCase,
	webhookUC handleWebhookUseCase,
	logger logger.Interface,
) *PaymentHandler {
	return &PaymentHandler{
		initiateUseCase: initiateUC,
		verifyUseCase:   verifyUC,
		webhookUseCase:  webhookUC,
		logger:          logger,
	}
}

type InitiateMembershipPaymentRequest struct {
	Provider    string `json:"provider"`
	RedirectURL string `json:"redirect_url" binding:"required,url"`
}

type InitiateSubscriptionPaymentRequest struct {
	SubscriptionID uint   `json:"subscription_id" binding:"required,min=1"`
	Provider       string `json:"provider"`
	RedirectURL    string `json:"redirect_url" binding:"required,url"`
}

// PaymentStatusResponse is the body of a verification answer.
type PaymentStatusResponse struct {
	Success   bool   `json:"success"`
	Outcome   string `json:"outcome"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Purpose   string `json:"purpose"`
	Amount    string `json:"amount,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

func (h *PaymentHandler) InitiateMembershipPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req InitiateMembershipPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.initiateUseCase.Execute(c.Request.Context(), usecases.InitiatePaymentCommand{
		Purpose:     vo.PurposeMembership,
		UserID:      userID,
		Provider:    req.Provider,
		RedirectURL: req.RedirectURL,
	})
	if err != nil {
		h.logger.Errorw("failed to initiate membership payment", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Payment initiated")
}

func (h *PaymentHandler) InitiateSubscriptionPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req InitiateSubscriptionPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.initiateUseCase.Execute(c.Request.Context(), usecases.InitiatePaymentCommand{
		Purpose:        vo.PurposeSubscription,
		UserID:         userID,
		Provider:       req.Provider,
		RedirectURL:    req.RedirectURL,
		SubscriptionID: req.SubscriptionID,
	})
	if err != nil {
		h.logger.Errorw("failed to initiate subscription payment", "error", err,
			"user_id", userID, "subscription_id", req.SubscriptionID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Payment initiated")
}

func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	role := authorization.ParseUserRole(c.GetString(constants.ContextKeyUserRole))
	result, err := h.verifyUseCase.Execute(c.Request.Context(), usecases.VerifyPaymentCommand{
		Reference: c.Param("reference"),
		UserID:    authorization.OwnerScope(userID, role),
	})
	if err != nil {
		h.logger.Warnw("failed to verify payment", "error", err, "reference", c.Param("reference"), "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	paymentStatusResponse(c, result)
}

// HandleWebhook hands the untouched body to the provider adapter; signature
// checks need the exact bytes that were signed.
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	provider := c.Param("provider")

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.logger.Warnw("failed to read webhook body", "error", err, "provider", provider)
		utils.ErrorResponse(c, http.StatusBadRequest, "unable to read request body")
		return
	}

	result, err := h.webhookUseCase.Execute(c.Request.Context(), usecases.HandleWebhookCommand{
		Provider: provider,
		Payload:  payload,
		Header:   c.Request.Header,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Webhook received", result)
}

// paymentStatusResponse maps a reconciliation outcome onto HTTP: settled
// payments answer 200, in-flight ones 202 and declined ones 400.
func paymentStatusResponse(c *gin.Context, result *usecases.ReconcileResult) {
	body := PaymentStatusResponse{
		Success:   result.Outcome == usecases.OutcomeSucceeded || result.Outcome == usecases.OutcomeAlreadyProcessed,
		Outcome:   string(result.Outcome),
		Reference: result.Reference,
		Status:    string(result.Status),
		Purpose:   string(result.Purpose),
		Amount:    result.Amount,
		Currency:  result.Currency,
	}

	switch result.Outcome {
	case usecases.OutcomePending:
		utils.SuccessResponse(c, http.StatusAccepted, result.Message, body)
	case usecases.OutcomeFailed:
		c.JSON(http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Data:    body,
			Error:   &utils.ErrorInfo{Type: "payment_failed", Message: result.Message},
		})
	default:
		utils.SuccessResponse(c, http.StatusOK, result.Message, body)
	}
}
