package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kakeibo-dev/kakeibo/internal/config"
	"github.com/kakeibo-dev/kakeibo/internal/gitops"
	"github.com/kakeibo-dev/kakeibo/internal/store"
)

func newInitCommand(opts *globalOptions) *cobra.Command {
	var driver string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new kakeibo project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, driver, useGit)
		},
	}

	cmd.Flags().StringVar(&driver, "driver", config.DriverSQLite, "store driver (sqlite or csv)")
	cmd.Flags().BoolVar(&useGit, "git", false, "version the project with git and commit after every import")

	return cmd
}

func runInit(ctx context.Context, w io.Writer, dir, driver string, useGit bool) error {
	if driver != config.DriverSQLite && driver != config.DriverCSV {
		return fmt.Errorf("%w: %q", store.ErrUnknownDriver, driver)
	}

	cfgPath := filepath.Join(dir, config.FileName)
	cfg := config.Default()

	if _, err := os.Stat(cfgPath); err == nil {
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
	} else if errors.Is(err, fs.ErrNotExist) {
		cfg.Store.Driver = driver
		cfg.Store.Path = config.DefaultStorePath(driver)
		cfg.Git.AutoCommit = useGit
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
		if err := config.Save(cfgPath, cfg); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
	} else {
		return fmt.Errorf("checking config: %w", err)
	}

	dirs := []string{
		cfg.Import.Inbox,
		cfg.Import.Processed,
		"logs",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(config.Resolve(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Opening the store creates its schema.
	st, err := store.Open(ctx, dir, cfg.Store)
	if err != nil {
		return err
	}
	if err := st.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}

	if useGit {
		hash, err := initGit(ctx, dir, cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Initialized kakeibo project at %s (store: %s, commit: %s)\n", dir, cfg.Store.Driver, hash)
		return nil
	}

	fmt.Fprintf(w, "Initialized kakeibo project at %s (store: %s)\n", dir, cfg.Store.Driver)
	return nil
}

func initGit(ctx context.Context, dir string, cfg *config.Config) (string, error) {
	if !gitops.IsRepo(dir) {
		if err := gitops.Init(ctx, dir); err != nil {
			return "", err
		}
	}

	// Source files stay out of history; the store and logs are the record.
	gitignore := cfg.Import.Inbox + "/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}

	hash, err := gitops.CommitAll(ctx, dir, "init: kakeibo project", gitAuthor(cfg))
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}

func gitAuthor(cfg *config.Config) gitops.Author {
	return gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
}
