package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/memberhub/memberhub/internal/infrastructure/permission"
	"github.com/memberhub/memberhub/internal/interfaces/http/handlers"
	"github.com/memberhub/memberhub/internal/interfaces/http/middleware"
)

type SubscriptionRouteConfig struct {
	SubscriptionHandler  *handlers.SubscriptionHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupSubscriptionRoutes configures subscription routes.
// Static paths are registered before /:id so they never parse as ids.
func SetupSubscriptionRoutes(api *gin.RouterGroup, cfg *SubscriptionRouteConfig) {
	h := cfg.SubscriptionHandler
	manage := cfg.PermissionMiddleware.RequirePermission(permission.ResourceSubscription, permission.ActionManage)

	subscriptions := api.Group("/subscriptions")
	{
		subscriptions.GET("/plans", h.ListPlans)

		own := subscriptions.Group("")
		own.Use(cfg.AuthMiddleware.RequireAuth())
		{
			own.GET("/active", h.GetMyActiveSubscription)
			own.GET("/history", h.ListMySubscriptionHistory)
		}

		admin := subscriptions.Group("")
		admin.Use(cfg.AuthMiddleware.RequireAuth(), manage)
		{
			admin.POST("", h.CreateSubscription)
			admin.GET("/:id", h.GetSubscription)
			admin.POST("/:id/activate", h.ActivateSubscription)
			admin.POST("/:id/cancel", h.CancelSubscription)
			admin.POST("/:id/payments", h.RecordPayment)
		}
	}

	users := api.Group("/users/:user_id/subscriptions")
	users.Use(cfg.AuthMiddleware.RequireAuth(), manage)
	{
		users.GET("/active", h.GetUserActiveSubscription)
		users.GET("/history", h.ListUserSubscriptionHistory)
	}
}
