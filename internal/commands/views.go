package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kakeibo-dev/kakeibo/internal/aggregate"
	"github.com/kakeibo-dev/kakeibo/internal/importlog"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/report"
	"github.com/kakeibo-dev/kakeibo/internal/store/csvfile"
)

func newMonthlyCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "monthly",
		Short: "Show income, expense and transfers per month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts)
			if err != nil {
				return err
			}
			txns, _, err := p.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			report.Monthly(cmd.OutOrStdout(), p.engine().SummarizeMonthly(txns))
			return nil
		},
	}
}

func newDashboardCommand(opts *globalOptions) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show this month, top categories, latest assets and alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts)
			if err != nil {
				return err
			}
			txns, assets, err := p.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			e := p.engine()
			report.RenderDashboard(cmd.OutOrStdout(), report.Dashboard{
				Summary: e.CurrentMonthSummary(txns),
				Top:     e.TopCategories(txns, top),
				Latest:  aggregate.LatestAssetSnapshot(assets),
				Alerts:  e.DetectAlerts(txns),
			})
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "number of categories (default from config)")

	return cmd
}

func newLedgerCommand(opts *globalOptions) *cobra.Command {
	var filter aggregate.LedgerFilter

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts)
			if err != nil {
				return err
			}
			txns, _, err := p.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			report.Ledger(cmd.OutOrStdout(), aggregate.Filter(txns, filter))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.From, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.To, "to", "", "last date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.Keyword, "search", "", "match description, memo or category")
	cmd.Flags().BoolVar(&filter.IncludeTransfers, "transfers", false, "include transfers")
	cmd.Flags().BoolVar(&filter.IncludeExcluded, "excluded", false, "include records excluded from totals")

	return cmd
}

func newExportCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <transactions|assets>",
		Short: "Write stored records as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(args[0])
			if err != nil {
				return err
			}
			p, err := openProject(opts)
			if err != nil {
				return err
			}
			txns, assets, err := p.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			return runExport(cmd.OutOrStdout(), kind, txns, assets)
		},
	}
}

func runExport(w io.Writer, kind model.Kind, txns []model.Transaction, assets []model.Asset) error {
	if kind == model.KindAssets {
		return csvfile.WriteAssets(w, assets)
	}
	return csvfile.WriteTransactions(w, txns)
}

func newHistoryCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show past imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts)
			if err != nil {
				return err
			}
			entries, err := importlog.Read(p.dir)
			if err != nil {
				return fmt.Errorf("reading import history: %w", err)
			}
			report.History(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}
