// Package plans seeds subscription plans from a YAML file.
package plans

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/memberhub/memberhub/internal/application/subscription/usecases"
	"github.com/memberhub/memberhub/internal/infrastructure/database"
	"github.com/memberhub/memberhub/internal/infrastructure/repository"
	"github.com/memberhub/memberhub/internal/interfaces/cli/bootstrap"
	"github.com/memberhub/memberhub/internal/shared/biztime"
)

var (
	env  string
	file string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Subscription plan tools",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.AddCommand(newSeedCommand())

	return cmd
}

func newSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create or update plans from a YAML file",
		Long:  `Upsert subscription plans by name from a YAML document with a top-level "plans" list.`,
		RunE:  runSeed,
	}

	cmd.Flags().StringVarP(&file, "file", "f", "configs/plans.yaml", "Plan seed file")

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	seeds, err := usecases.ParsePlanSeeds(data)
	if err != nil {
		return err
	}

	_, log, err := bootstrap.Load(env)
	if err != nil {
		return err
	}
	defer database.Close()

	uc := usecases.NewSeedPlansUseCase(repository.NewPlanRepository(database.Get()), biztime.SystemClock(), log)
	result, err := uc.Execute(cmd.Context(), seeds)
	if err != nil {
		return fmt.Errorf("failed to seed plans: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Plans seeded: %d created, %d updated\n", result.Created, result.Updated)
	return nil
}
