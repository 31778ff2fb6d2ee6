package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/memberhub/memberhub/internal/infrastructure/permission"
	"github.com/memberhub/memberhub/internal/interfaces/http/handlers"
	"github.com/memberhub/memberhub/internal/interfaces/http/middleware"
)

type MembershipRouteConfig struct {
	MembershipHandler    *handlers.MembershipHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	VerifyRateLimiter    *middleware.RateLimiter
}

// SetupMembershipRoutes configures ID card routes. Verification is public
// and throttled per client IP.
func SetupMembershipRoutes(api *gin.RouterGroup, cfg *MembershipRouteConfig) {
	membership := api.Group("/membership")
	membership.Use(cfg.AuthMiddleware.RequireAuth())
	{
		membership.POST("/demo", cfg.MembershipHandler.GrantDemoMembership)
		membership.GET("/card",
			cfg.PermissionMiddleware.RequirePermission(permission.ResourceIDCard, permission.ActionRead),
			cfg.MembershipHandler.GetMyCard,
		)
	}

	api.GET("/id-verification/:id_number", cfg.VerifyRateLimiter.Limit(), cfg.MembershipHandler.VerifyIDNumber)
	api.GET("/members/count", cfg.MembershipHandler.CountMembers)
}
