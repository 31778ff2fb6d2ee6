package http

import (
	"github.com/memberhub/memberhub/internal/interfaces/http/handlers"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// allHandlers holds all HTTP handler instances.
type allHandlers struct {
	paymentHandler      *handlers.PaymentHandler
	donationHandler     *handlers.DonationHandler
	membershipHandler   *handlers.MembershipHandler
	subscriptionHandler *handlers.SubscriptionHandler
	healthHandler       *handlers.HealthHandler
}

func newHandlers(ucs *allUseCases, checks map[string]handlers.Pinger, log logger.Interface) *allHandlers {
	return &allHandlers{
		paymentHandler: handlers.NewPaymentHandler(
			ucs.initiatePaymentUC, ucs.verifyPaymentUC, ucs.handleWebhookUC, log,
		),
		donationHandler: handlers.NewDonationHandler(ucs.initiateDonateUC, ucs.verifyPaymentUC, log),
		membershipHandler: handlers.NewMembershipHandler(
			ucs.grantDemoUC, ucs.getMyCardUC, ucs.verifyIDNumberUC, ucs.countMembersUC, log,
		),
		subscriptionHandler: handlers.NewSubscriptionHandler(
			ucs.createSubscriptionUC,
			ucs.getSubscriptionUC,
			ucs.activateSubscriptionUC,
			ucs.cancelSubscriptionUC,
			ucs.getActiveUC,
			ucs.historyUC,
			ucs.recordPaymentUC,
			ucs.listPlansUC,
			log,
		),
		healthHandler: handlers.NewHealthHandler(checks, log),
	}
}
