package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/memberhub/memberhub/internal/infrastructure/config"
	"github.com/memberhub/memberhub/internal/infrastructure/database"
	"github.com/memberhub/memberhub/internal/infrastructure/migration"
	"github.com/memberhub/memberhub/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/memberhub/memberhub/internal/interfaces/http"
	"github.com/memberhub/memberhub/internal/shared/logger"
	"github.com/memberhub/memberhub/internal/shared/version"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the MemberHub HTTP API with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, log, err := bootstrap.Load(env)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("starting server",
		"environment", env,
		"version", version.Get().Version,
		"auto_migrate", autoMigrate,
	)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	if autoMigrate {
		if err := runMigrations(cfg, log); err != nil {
			return err
		}
	}

	redisClient, err := bootstrap.ConnectRedis(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	container, err := httpRouter.NewContainer(database.Get(), redisClient, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server listening", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		errCh <- container.Run(cfg.Server.GetAddr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Infow("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := container.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func runMigrations(cfg *config.Config, log logger.Interface) error {
	if env == "production" {
		log.Warnw("auto-migration is enabled in production environment")
	}
	manager, err := migration.NewManager(cfg.Database.Driver, "goose")
	if err != nil {
		return err
	}
	if err := manager.Migrate(database.Get()); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}
