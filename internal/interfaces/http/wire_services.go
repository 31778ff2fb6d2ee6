package http

import (
	"context"
	"fmt"
	"time"

	paymentUsecases "github.com/memberhub/memberhub/internal/application/payment/usecases"
	"github.com/memberhub/memberhub/internal/infrastructure/auth"
	"github.com/memberhub/memberhub/internal/infrastructure/cache"
	"github.com/memberhub/memberhub/internal/infrastructure/email"
	infraPayment "github.com/memberhub/memberhub/internal/infrastructure/payment"
	"github.com/memberhub/memberhub/internal/infrastructure/permission"
	"github.com/memberhub/memberhub/internal/infrastructure/ratelimit"
	"github.com/memberhub/memberhub/internal/interfaces/http/handlers"
	"github.com/memberhub/memberhub/internal/interfaces/http/middleware"
	"github.com/memberhub/memberhub/internal/shared/db"
)

// webhookDedupTTL bounds how long a provider event id is remembered.
// Providers stop retrying well within a day.
const webhookDedupTTL = 24 * time.Hour

// initInfrastructure builds the services that talk to the outside world:
// payment gateways, email, the policy store and the token verifier.
func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	gateways, err := infraPayment.NewGatewayRegistry(cfg.Payment, log.Named("payment"))
	if err != nil {
		return fmt.Errorf("failed to initialize payment gateways: %w", err)
	}
	c.gateways = gateways

	notifier, err := email.NewNotifier(cfg.Email, log.Named("email"))
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}
	c.notifier = notifier

	enforcer, err := permission.NewEnforcer(c.db, cfg.Auth.PolicyPath, log.Named("permission"))
	if err != nil {
		return fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}
	if err := permission.SeedDefaultPolicies(enforcer, log); err != nil {
		return fmt.Errorf("failed to seed default policies: %w", err)
	}
	c.enforcer = enforcer

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessExpMinutes)
	return nil
}

func (c *Container) initMiddlewares() {
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, c.log)

	var limiter ratelimit.RateLimiter = ratelimit.NoopRateLimiter{}
	if c.redis != nil {
		limiter = ratelimit.NewRedisRateLimiter(c.redis)
	}
	c.verifyRateLimiter = middleware.NewRateLimiter(limiter, "id-verification", ratelimit.Rule{
		Limit:  c.cfg.RateLimit.Limit,
		Window: c.cfg.RateLimit.Window,
	}, c.log)
}

func (c *Container) webhookDeduplicator() paymentUsecases.WebhookDeduplicator {
	if c.redis == nil {
		return nil
	}
	return cache.NewWebhookDeduplicator(c.redis, webhookDedupTTL)
}

func (c *Container) transactionManager() db.Transactor {
	return db.NewTransactionManager(c.db)
}

// healthChecks lists the dependencies reported by /health. Only the database
// is critical.
func (c *Container) healthChecks() map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{
		"database": handlers.PingerFunc(func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if c.redis != nil {
		checks["redis"] = handlers.PingerFunc(func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		})
	}
	return checks
}
