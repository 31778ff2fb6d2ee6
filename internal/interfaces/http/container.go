package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/memberhub/memberhub/internal/application/notification"
	"github.com/memberhub/memberhub/internal/application/payment/paymentgateway"
	"github.com/memberhub/memberhub/internal/infrastructure/auth"
	"github.com/memberhub/memberhub/internal/infrastructure/config"
	"github.com/memberhub/memberhub/internal/infrastructure/permission"
	"github.com/memberhub/memberhub/internal/infrastructure/scheduler"
	"github.com/memberhub/memberhub/internal/interfaces/http/middleware"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// Container holds infrastructure components, repositories, use cases and
// handlers, wired together once per process.
type Container struct {
	engine *gin.Engine
	server *http.Server
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client
	clock  biztime.Clock

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	jwtSvc   *auth.JWTService
	enforcer *permission.Enforcer
	gateways *paymentgateway.Registry
	notifier notification.Notifier

	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	verifyRateLimiter    *middleware.RateLimiter
}

// NewContainer creates a Container with all dependencies wired together.
// redisClient may be nil, in which case webhook deduplication and rate
// limiting are disabled.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	return newContainer(db, redisClient, cfg, biztime.SystemClock(), log)
}

func newContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, clock biztime.Clock, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
		clock:  clock,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	c.repos = newRepositories(db, clock, log)

	ucs, err := newUseCases(useCaseDeps{
		repos:    c.repos,
		gateways: c.gateways,
		notifier: c.notifier,
		dedup:    c.webhookDeduplicator(),
		txMgr:    c.transactionManager(),
		clock:    clock,
		cfg:      cfg,
		log:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to wire use cases: %w", err)
	}
	c.ucs = ucs

	c.initMiddlewares()
	c.hdlrs = newHandlers(c.ucs, c.healthChecks(), log)
	c.SetupRoutes()

	return c, nil
}

// GetEngine returns the Gin engine
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}

// Run serves HTTP until Shutdown is called.
func (c *Container) Run(addr string) error {
	c.server = &http.Server{
		Addr:         addr,
		Handler:      c.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	if err := c.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.server == nil {
		return nil
	}
	return c.server.Shutdown(ctx)
}

// NewScheduler builds the worker scheduler with the reconciliation sweep and
// the nightly expiry jobs registered.
func (c *Container) NewScheduler() (*scheduler.SchedulerManager, error) {
	manager, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return nil, err
	}
	if err := manager.RegisterReconciliationJob(c.ucs.reconcileStaleUC, c.cfg.Worker.SweepInterval); err != nil {
		return nil, err
	}
	if err := manager.RegisterExpiryJobs(c.ucs.expireSubscriptionsUC, c.ucs.expireCardsUC); err != nil {
		return nil, err
	}
	return manager, nil
}
