// Package http wires the application and exposes it over HTTP.
package http

import (
	"github.com/memberhub/memberhub/internal/interfaces/http/middleware"
	"github.com/memberhub/memberhub/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)
	c.engine.GET("/version", c.hdlrs.healthHandler.Version)

	api := c.engine.Group("/api/v1")

	routes.SetupPaymentRoutes(api, &routes.PaymentRouteConfig{
		PaymentHandler:  c.hdlrs.paymentHandler,
		DonationHandler: c.hdlrs.donationHandler,
		AuthMiddleware:  c.authMiddleware,
	})

	routes.SetupMembershipRoutes(api, &routes.MembershipRouteConfig{
		MembershipHandler:    c.hdlrs.membershipHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
		VerifyRateLimiter:    c.verifyRateLimiter,
	})

	routes.SetupSubscriptionRoutes(api, &routes.SubscriptionRouteConfig{
		SubscriptionHandler:  c.hdlrs.subscriptionHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}
