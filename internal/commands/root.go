package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kakeibo-dev/kakeibo/internal/buildinfo"
	"github.com/kakeibo-dev/kakeibo/internal/config"
	"github.com/kakeibo-dev/kakeibo/internal/logger"
)

// globalOptions are the persistent root flags.
type globalOptions struct {
	dir     string
	verbose bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "kakeibo",
		Short:   "Household ledger: import bank and asset exports, review monthly spending",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "project directory")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newImportCommand(opts),
		newScanCommand(opts),
		newMonthlyCommand(opts),
		newDashboardCommand(opts),
		newLedgerCommand(opts),
		newExportCommand(opts),
		newHistoryCommand(opts),
	)

	return rootCmd
}

// setupLogger puts a console logger on the command context. The level comes
// from the project config unless --verbose forces debug.
func setupLogger(cmd *cobra.Command, opts *globalOptions) error {
	level := zerolog.DebugLevel
	if !opts.verbose {
		cfg, err := config.LoadDir(opts.dir)
		if err != nil {
			return err
		}
		if level, err = logger.ParseLevel(cfg.Logging.Level); err != nil {
			return err
		}
	}
	l := logger.New(cmd.ErrOrStderr(), level)
	cmd.SetContext(logger.WithContext(cmd.Context(), l))
	return nil
}
