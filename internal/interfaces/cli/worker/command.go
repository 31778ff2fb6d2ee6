// Package worker runs the background jobs: stale payment reconciliation and
// the nightly expiry sweeps.
package worker

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/memberhub/memberhub/internal/infrastructure/database"
	"github.com/memberhub/memberhub/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/memberhub/memberhub/internal/interfaces/http"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run scheduled background jobs",
		Long:  `Run the payment reconciliation sweep and the subscription and id card expiry jobs until interrupted.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

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

	log = log.Named("worker")
	log.Infow("starting worker", "environment", env)

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

	manager, err := container.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	manager.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Infow("received signal, shutting down", "signal", sig.String())
	if err := manager.Shutdown(); err != nil {
		return err
	}
	log.Infow("worker stopped")
	return nil
}
