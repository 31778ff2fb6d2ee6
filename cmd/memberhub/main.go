package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/memberhub/memberhub/internal/interfaces/cli/idcard"
	"github.com/memberhub/memberhub/internal/interfaces/cli/migrate"
	"github.com/memberhub/memberhub/internal/interfaces/cli/plans"
	"github.com/memberhub/memberhub/internal/interfaces/cli/server"
	"github.com/memberhub/memberhub/internal/interfaces/cli/version"
	"github.com/memberhub/memberhub/internal/interfaces/cli/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "memberhub",
		Short:        "MemberHub - membership, subscriptions and payments",
		Long:         `MemberHub runs the membership API, the background worker, and the administrative tools for migrations, plans and id cards.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		worker.NewCommand(),
		migrate.NewCommand(),
		idcard.NewCommand(),
		plans.NewCommand(),
		version.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
