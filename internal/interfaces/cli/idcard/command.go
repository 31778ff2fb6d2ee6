// Package idcard holds maintenance commands for membership id cards.
package idcard

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/memberhub/memberhub/internal/application/credential/dto"
	"github.com/memberhub/memberhub/internal/application/credential/usecases"
	"github.com/memberhub/memberhub/internal/domain/credential"
	"github.com/memberhub/memberhub/internal/infrastructure/database"
	"github.com/memberhub/memberhub/internal/infrastructure/repository"
	"github.com/memberhub/memberhub/internal/interfaces/cli/bootstrap"
	"github.com/memberhub/memberhub/internal/shared/biztime"
)

var (
	env       string
	dryRun    bool
	batchSize int
	verbose   bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idcard",
		Short: "ID card maintenance",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.AddCommand(newRegenerateCommand())

	return cmd
}

func newRegenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Rewrite id numbers that do not follow the current scheme",
		Long: `Scan every id card and replace numbers that do not match the LYA/LYY scheme.
Conforming numbers are left alone. With --dry-run nothing is written.`,
		RunE: runRegenerate,
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing them")
	cmd.Flags().IntVar(&batchSize, "batch-size", 200, "Cards loaded per batch")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every changed card")

	return cmd
}

func runRegenerate(cmd *cobra.Command, args []string) error {
	_, log, err := bootstrap.Load(env)
	if err != nil {
		return err
	}
	defer database.Close()

	db := database.Get()
	clock := biztime.SystemClock()
	uc := usecases.NewRegenerateIDNumbersUseCase(
		repository.NewIDCardRepository(db, clock),
		repository.NewMemberRepository(db),
		credential.NewIDNumberGenerator(),
		clock,
		log,
	)

	summary, err := uc.Execute(cmd.Context(), usecases.RegenerateIDNumbersCommand{
		DryRun:    dryRun,
		BatchSize: batchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to regenerate id numbers: %w", err)
	}

	printSummary(cmd.OutOrStdout(), summary, verbose)
	return nil
}

func printSummary(out io.Writer, summary *dto.RegenerateSummary, verbose bool) {
	if summary.DryRun {
		fmt.Fprintln(out, "Dry run: no changes were written.")
	}
	fmt.Fprintf(out, "Scanned: %d  Updated: %d  Skipped: %d  Failed: %d\n",
		summary.Scanned, summary.Updated, summary.Skipped, summary.Failed)

	if !verbose || len(summary.Changes) == 0 {
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CARD\tUSER\tOLD\tNEW\tERROR")
	for _, c := range summary.Changes {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", c.CardID, c.UserID, c.OldNumber, c.NewNumber, c.Error)
	}
	w.Flush()
}
