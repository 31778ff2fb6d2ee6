package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/memberhub/memberhub/internal/application/subscription/usecases"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/logger"
	"github.com/memberhub/memberhub/internal/shared/utils"
)

// SubscriptionHandler serves members their own subscriptions and lets
// administrators manage anyone's.
type SubscriptionHandler struct {
	createUseCase        createSubscriptionUseCase
	getUseCase           getSubscriptionUseCase
	activateUseCase      activateSubscriptionUseCase
	cancelUseCase        cancelSubscriptionUseCase
	getActiveUseCase     getActiveSubscriptionUseCase
	historyUseCase       listSubscriptionHistoryUseCase
	recordPaymentUseCase recordSubscriptionPaymentUseCase
	listPlansUseCase     listPlansUseCase
	logger               logger.Interface
}

func NewSubscriptionHandler(
	createUC createSubscriptionUseCase,
	getUC getSubscriptionUseCase,
	activateUC activateSubscriptionUseCase,
	cancelUC cancelSubscriptionUseCase,
	getActiveUC getActiveSubscriptionUseCase,
	historyUC listSubscriptionHistoryUseCase,
	recordPaymentUC recordSubscriptionPaymentUseCase,
	listPlansUC listPlansUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		createUseCase:        createUC,
		getUseCase:           getUC,
		activateUseCase:      activateUC,
		cancelUseCase:        cancelUC,
		getActiveUseCase:     getActiveUC,
		historyUseCase:       historyUC,
		recordPaymentUseCase: recordPaymentUC,
		listPlansUseCase:     listPlansUC,
		logger:               logger,
	}
}

// CreateSubscriptionRequest is an administrator registering a subscription
// on a member's behalf. StartDate is a calendar date (YYYY-MM-DD).
type CreateSubscriptionRequest struct {
	UserID           uint   `json:"user_id" binding:"required,min=1"`
	PlanID           uint   `json:"plan_id" binding:"required,min=1"`
	StartDate        string `json:"start_date"`
	PaymentMethod    string `json:"payment_method" binding:"required"`
	AmountPaid       string `json:"amount_paid"`
	PaymentReference string `json:"payment_reference"`
	AutoRenew        bool   `json:"auto_renew"`
}

type RecordPaymentRequest struct {
	Amount    string `json:"amount" binding:"required"`
	Method    string `json:"payment_method" binding:"required"`
	Reference string `json:"payment_reference"`
	Notes     string `json:"notes" binding:"max=1000"`
	MarkPaid  *bool  `json:"mark_paid"`
}

func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.listPlansUseCase.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list plans", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", plans)
}

func (h *SubscriptionHandler) GetMyActiveSubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	h.getActive(c, userID)
}

func (h *SubscriptionHandler) ListMySubscriptionHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	h.listHistory(c, userID)
}

func (h *SubscriptionHandler) GetUserActiveSubscription(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "user_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	h.getActive(c, userID)
}

func (h *SubscriptionHandler) ListUserSubscriptionHistory(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "user_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	h.listHistory(c, userID)
}

func (h *SubscriptionHandler) getActive(c *gin.Context, userID uint) {
	result, err := h.getActiveUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			h.logger.Errorw("failed to get active subscription", "error", err, "user_id", userID)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *SubscriptionHandler) listHistory(c *gin.Context, userID uint) {
	pagination := utils.ParsePagination(c)

	result, err := h.historyUseCase.Execute(c.Request.Context(), usecases.ListSubscriptionHistoryQuery{
		UserID:   userID,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	})
	if err != nil {
		h.logger.Errorw("failed to list subscription history", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Subscriptions, result.Total, pagination)
}

func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := usecases.CreateSubscriptionCommand{
		UserID:           req.UserID,
		PlanID:           req.PlanID,
		PaymentMethod:    req.PaymentMethod,
		AmountPaid:       req.AmountPaid,
		PaymentReference: req.PaymentReference,
		AutoRenew:        req.AutoRenew,
	}
	if s := strings.TrimSpace(req.StartDate); s != "" {
		startDate, err := biztime.ParseDate(s)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("invalid start_date, expected YYYY-MM-DD", s))
			return
		}
		cmd.StartDate = &startDate
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to create subscription", "error", err, "user_id", req.UserID, "plan_id", req.PlanID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Subscription created")
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	subscriptionID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), subscriptionID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *SubscriptionHandler) ActivateSubscription(c *gin.Context) {
	subscriptionID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.activateUseCase.Execute(c.Request.Context(), subscriptionID)
	if err != nil {
		h.logger.Warnw("failed to activate subscription", "error", err, "subscription_id", subscriptionID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription activated", result)
}

func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	subscriptionID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.cancelUseCase.Execute(c.Request.Context(), subscriptionID)
	if err != nil {
		h.logger.Warnw("failed to cancel subscription", "error", err, "subscription_id", subscriptionID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription cancelled", result)
}

func (h *SubscriptionHandler) RecordPayment(c *gin.Context) {
	subscriptionID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	markPaid := true
	if req.MarkPaid != nil {
		markPaid = *req.MarkPaid
	}

	result, err := h.recordPaymentUseCase.Execute(c.Request.Context(), usecases.RecordSubscriptionPaymentCommand{
		SubscriptionID: subscriptionID,
		Amount:         req.Amount,
		Method:         req.Method,
		Reference:      req.Reference,
		Notes:          req.Notes,
		MarkPaid:       markPaid,
	})
	if err != nil {
		h.logger.Errorw("failed to record subscription payment", "error", err, "subscription_id", subscriptionID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Payment recorded")
}
