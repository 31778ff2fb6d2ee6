// Package routes provides HTTP route configurations.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/memberhub/memberhub/internal/interfaces/http/handlers"
	"github.com/memberhub/memberhub/internal/interfaces/http/middleware"
)

// PaymentRouteConfig holds dependencies for payment and donation routes.
type PaymentRouteConfig struct {
	PaymentHandler  *handlers.PaymentHandler
	DonationHandler *handlers.DonationHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// SetupPaymentRoutes configures payment routes.
// Webhooks carry no bearer token; the provider signature authenticates them.
func SetupPaymentRoutes(api *gin.RouterGroup, cfg *PaymentRouteConfig) {
	payments := api.Group("/payments")
	{
		payments.POST("/webhooks/:provider", cfg.PaymentHandler.HandleWebhook)

		paymentsProtected := payments.Group("")
		paymentsProtected.Use(cfg.AuthMiddleware.RequireAuth())
		{
			paymentsProtected.POST("/membership", cfg.PaymentHandler.InitiateMembershipPayment)
			paymentsProtected.POST("/subscription", cfg.PaymentHandler.InitiateSubscriptionPayment)
			paymentsProtected.GET("/verify/:reference", cfg.PaymentHandler.VerifyPayment)
		}
	}

	donations := api.Group("/donations")
	donations.Use(cfg.AuthMiddleware.OptionalAuth())
	{
		donations.POST("", cfg.DonationHandler.InitiateDonation)
		donations.GET("/verify/:reference", cfg.DonationHandler.VerifyDonation)
	}
}
