package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/memberhub/memberhub/internal/infrastructure/config"
	"github.com/memberhub/memberhub/internal/infrastructure/database"
	"github.com/memberhub/memberhub/internal/infrastructure/migration"
	"github.com/memberhub/memberhub/internal/interfaces/cli/bootstrap"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

var (
	env         string
	strategy    string
	scriptsPath string
	name        string
	steps       int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&strategy, "strategy", "s", "goose", "Migration strategy (goose, golang-migrate, gorm)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create a goose script and the matching golang-migrate pair with the specified name.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVar(&scriptsPath, "dir", "./internal/infrastructure/migration/scripts", "Scripts directory holding goose/ and migrate/")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func initManager() (*migration.Manager, logger.Interface, error) {
	cfg, log, err := bootstrap.Load(env)
	if err != nil {
		return nil, nil, err
	}
	manager, err := newManager(cfg)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return manager, log, nil
}

func newManager(cfg *config.Config) (*migration.Manager, error) {
	return migration.NewManager(cfg.Database.Driver, strategy)
}

func runUp(cmd *cobra.Command, args []string) error {
	manager, log, err := initManager()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running up migrations", "environment", env, "strategy", manager.GetStrategy().GetName())

	if err := manager.Migrate(database.Get()); err != nil {
		return err
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	manager, log, err := initManager()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running down migrations", "environment", env, "steps", steps)

	if err := manager.Rollback(database.Get(), steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, _, err := initManager()
	if err != nil {
		return err
	}
	defer database.Close()

	status, err := manager.Status(database.Get())
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment: %s\n", env)
	fmt.Fprintf(out, "  Strategy:    %s\n", manager.GetStrategy().GetName())
	fmt.Fprintf(out, "  %s\n", status)
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(scriptsPath)
	if err != nil {
		return fmt.Errorf("failed to resolve scripts path: %w", err)
	}

	if err := migration.NewGenerator(dir).CreateMigration(name); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created in %s\n", name, dir)
	return nil
}
