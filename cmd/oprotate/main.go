package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/oprotate/cmd/oprotate/commands"
	"github.com/systmms/oprotate/internal/config"
	"github.com/systmms/oprotate/internal/logging"
	"github.com/systmms/oprotate/internal/secure"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Wipe every sealed credential value before the process exits.
	defer secure.Purge()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		secure.Purge()
		os.Exit(1)
	}
}

func run() error {
	var (
		noColor        bool
		debug          bool
		nonInteractive bool
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "oprotate",
		Short: "Rotate credential values into a 1Password vault",
		Long: `oprotate takes a file of new credential values grouped by issuer,
finds the matching item in a 1Password vault, and writes each new value
into the item's credential field via the op CLI.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Logger = logging.New(debug, noColor)
			cfg.NonInteractive = nonInteractive
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Non-interactive mode")

	rootCmd.AddCommand(
		commands.NewRotateCommand(cfg),
		commands.NewDoctorCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
