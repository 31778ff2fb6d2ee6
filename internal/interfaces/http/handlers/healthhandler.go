package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/memberhub/memberhub/internal/shared/logger"
	"github.com/memberhub/memberhub/internal/shared/utils"
	"github.com/memberhub/memberhub/internal/shared/version"
)

// Pinger is a dependency the health check pings.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	checks map[string]Pinger
	logger logger.Interface
}

func NewHealthHandler(checks map[string]Pinger, logger logger.Interface) *HealthHandler {
	return &HealthHandler{checks: checks, logger: logger}
}

// HealthCheck reports 503 when the database is down. Other dependencies only
// degrade the report.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	// checks are independent; a failing one must not cancel the others
	var (
		g          errgroup.Group
		mu         sync.Mutex
		components = make(map[string]string, len(h.checks))
	)
	for name, check := range h.checks {
		g.Go(func() error {
			state := "up"
			if err := check.Ping(ctx); err != nil {
				h.logger.Warnw("health check failed", "component", name, "error", err)
				state = "down"
			}
			mu.Lock()
			components[name] = state
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := http.StatusOK
	if components["database"] == "down" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, utils.APIResponse{
		Success: status == http.StatusOK,
		Data: gin.H{
			"status":     http.StatusText(status),
			"components": components,
			"version":    version.Get().Version,
		},
	})
}

func (h *HealthHandler) Version(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", version.Get())
}
