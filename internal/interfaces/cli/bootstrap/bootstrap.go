// Package bootstrap performs the startup steps shared by every command.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/memberhub/memberhub/internal/infrastructure/cache"
	"github.com/memberhub/memberhub/internal/infrastructure/config"
	"github.com/memberhub/memberhub/internal/infrastructure/database"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// Load reads configuration, installs the process logger and the business
// timezone, and opens the database.
func Load(env string) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = MapEnvToGinMode(cfg.Server.Mode)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, log, nil
}

// ConnectRedis returns nil when no Redis host is configured.
func ConnectRedis(ctx context.Context, cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	if strings.TrimSpace(cfg.Redis.Host) == "" {
		log.Warnw("redis not configured, webhook deduplication and rate limiting disabled")
		return nil, nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
	return client, nil
}

// MapEnvToGinMode translates a deployment environment into a gin mode.
func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
