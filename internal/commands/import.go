package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kakeibo-dev/kakeibo/internal/gitops"
	"github.com/kakeibo-dev/kakeibo/internal/header"
	"github.com/kakeibo-dev/kakeibo/internal/importer"
	"github.com/kakeibo-dev/kakeibo/internal/importlog"
	"github.com/kakeibo-dev/kakeibo/internal/logger"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/report"
	"github.com/kakeibo-dev/kakeibo/internal/store"
)

// importFlags are shared by import and scan.
type importFlags struct {
	maps     []string
	strategy string
	sheet    string
}

func (f *importFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "asset dedup strategy: overwrite or skip (default from config)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "workbook sheet to read (default from config)")
}

func newImportCommand(opts *globalOptions) *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <transactions|assets> <file>",
		Short: "Import a CSV or XLSX export",
		Long: `Import a CSV or XLSX export into the store.

Headers are matched against the known column names. When a required column
cannot be found, nothing is written and the unmatched headers are listed;
map one with --map "header=field" and run the import again.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(args[0])
			if err != nil {
				return err
			}
			p, err := openProject(opts)
			if err != nil {
				return err
			}
			_, err = runImport(cmd.Context(), cmd.OutOrStdout(), p, kind, args[1], flags)
			return err
		},
	}

	cmd.Flags().StringArrayVar(&flags.maps, "map", nil, `column override "raw header=field" (repeatable)`)
	flags.register(cmd)

	return cmd
}

// runImport runs one import session end to end and appends it to the
// import history.
func runImport(ctx context.Context, w io.Writer, p *project, kind model.Kind, path string, flags importFlags) (importer.Result, error) {
	overrides, err := header.ParseOverrides(flags.maps, header.ForKind(kind))
	if err != nil {
		return importer.Result{}, err
	}

	strategyName := flags.strategy
	if strategyName == "" {
		strategyName = p.cfg.Import.AssetStrategy
	}
	strategy, err := store.ParseStrategy(strategyName)
	if err != nil {
		return importer.Result{}, err
	}

	sheet := flags.sheet
	if sheet == "" {
		sheet = p.sheetFor(kind)
	}

	sess, err := importer.Open(ctx, path, kind, importer.Options{Sheet: sheet, Overrides: overrides})
	if err != nil {
		return importer.Result{}, err
	}

	if missing := sess.Missing(); len(missing) > 0 {
		printMissing(w, sess)
	}

	st, err := p.openStore(ctx)
	if err != nil {
		return importer.Result{}, err
	}
	defer st.Close()

	res, err := sess.Commit(ctx, st, strategy)
	if err != nil {
		return res, err
	}

	log := logger.FromContext(ctx)
	if err := importlog.Append(p.dir, []importlog.Entry{res.LogEntry(time.Now())}); err != nil {
		log.Warn().Err(err).Msg("failed to write import log")
	}

	printResult(w, res)

	if p.cfg.Git.AutoCommit && gitops.IsRepo(p.dir) {
		msg := fmt.Sprintf("import: %d %s from %s", res.Imported, res.Kind, res.Source)
		hash, err := gitops.CommitAll(ctx, p.dir, msg, gitAuthor(p.cfg))
		if err != nil {
			log.Warn().Err(err).Msg("failed to commit import")
		} else if hash != "" {
			fmt.Fprintf(w, "Committed %s\n", hash)
		}
	}
	return res, nil
}

func printMissing(w io.Writer, sess *importer.Session) {
	names := make([]string, len(sess.Missing()))
	for i, f := range sess.Missing() {
		names[i] = string(f)
	}
	fmt.Fprintf(w, "%s: missing required columns: %s\n", sess.Source, strings.Join(names, ", "))
	if unmapped := sess.Unmapped(); len(unmapped) > 0 {
		fmt.Fprintf(w, "Unmatched headers: %s\n", strings.Join(unmapped, ", "))
	}
	fmt.Fprintf(w, "Map one with --map \"<header>=%s\"\n", names[0])
}

func printResult(w io.Writer, res importer.Result) {
	fmt.Fprintf(w, "Imported %d %s from %s (%s)\n", res.Imported, res.Kind, res.Source, res.Encoding)
	if res.FirstDate != "" {
		fmt.Fprintf(w, "Dates: %s .. %s\n", res.FirstDate, res.LastDate)
	}
	if res.Skipped > 0 {
		fmt.Fprintf(w, "Skipped %d existing dates\n", res.Skipped)
	}
	if res.Dropped > 0 {
		fmt.Fprintf(w, "Dropped %d rows\n", res.Dropped)
	}
	if len(res.RowErrors) > 0 {
		fmt.Fprintf(w, "%d rows with errors:\n", len(res.RowErrors))
		report.RowErrors(w, res.RowErrors)
	}
}

func newScanCommand(opts *globalOptions) *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "scan <transactions|assets>",
		Short: "Import every file in the inbox and move it to processed",
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
			return runScan(cmd.Context(), cmd.OutOrStdout(), p, kind, flags)
		},
	}

	flags.register(cmd)

	return cmd
}

func runScan(ctx context.Context, w io.Writer, p *project, kind model.Kind, flags importFlags) error {
	inbox := p.path(p.cfg.Import.Inbox)
	files, err := importer.Scan(inbox, importer.DefaultRegistry())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(w, "No files in %s\n", inbox)
		return nil
	}

	var failed []string
	for _, f := range files {
		if _, err := runImport(ctx, w, p, kind, f.Path, flags); err != nil {
			fmt.Fprintf(w, "%s: %v\n", f.Name, err)
			failed = append(failed, f.Name)
			continue
		}
		if err := importer.MarkProcessed(inbox, p.path(p.cfg.Import.Processed), f.Name); err != nil {
			return err
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed: %s", len(failed), len(files), strings.Join(failed, ", "))
	}
	return nil
}
