package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/memberhub/memberhub/internal/infrastructure/ratelimit"
	"github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/logger"
	"github.com/memberhub/memberhub/internal/shared/utils"
)

// RateLimiter throttles public endpoints per client IP using a shared
// sliding window, so the limit holds across instances.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	rule    ratelimit.Rule
	scope   string
	logger  logger.Interface
}

// NewRateLimiter builds a limiter for one route group. scope separates the
// counters of different groups.
func NewRateLimiter(limiter ratelimit.RateLimiter, scope string, rule ratelimit.Rule, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		rule:    rule,
		scope:   scope,
		logger:  logger,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.scope + ":" + c.ClientIP()

		allowed, err := rl.limiter.Allow(c.Request.Context(), key, rl.rule)
		if err != nil {
			// Redis outage must not take the endpoint down with it.
			rl.logger.Warnw("rate limiter unavailable, allowing request", "error", err, "scope", rl.scope)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rule.Limit))
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(rl.rule.Window.Seconds())))
			utils.ErrorResponseWithError(c, errors.NewRateLimitedError("rate limit exceeded, please try again later"))
			c.Abort()
			return
		}

		c.Next()
	}
}
