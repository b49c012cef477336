package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Store.Driver = DriverCSV
	cfg.Store.Path = "ledger"
	cfg.Import.AssetStrategy = "skip"
	cfg.Report.TopCategories = 3
	cfg.Git.AutoCommit = true

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverCSV, got.Store.Driver)
	assert.Equal(t, "ledger", got.Store.Path)
	assert.Equal(t, cfg.Import.Inbox, got.Import.Inbox)
	assert.Equal(t, cfg.Import.Processed, got.Import.Processed)
	assert.Equal(t, "マスタ", got.Import.TransactionSheet)
	assert.Equal(t, "資産推移", got.Import.AssetSheet)
	assert.Equal(t, "skip", got.Import.AssetStrategy)
	assert.Equal(t, 3, got.Report.TopCategories)
	assert.InDelta(t, 0.30, got.Report.AlertThreshold, 0.001)
	assert.Equal(t, "uncategorized", got.Report.UncategorizedLabel)
	assert.Equal(t, "info", got.Logging.Level)
	assert.True(t, got.Git.AutoCommit)
	assert.Equal(t, "kakeibo@localhost", got.Git.AuthorEmail)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "kakeibo.db", cfg.Store.Path)
	assert.Equal(t, "import", cfg.Import.Inbox)
	assert.Equal(t, filepath.Join("import", "processed"), cfg.Import.Processed)
	assert.Equal(t, "overwrite", cfg.Import.AssetStrategy)
	assert.Equal(t, 5, cfg.Report.TopCategories)
	assert.InDelta(t, 0.30, cfg.Report.AlertThreshold, 0.001)
	assert.False(t, cfg.Git.AutoCommit)
	assert.Equal(t, "kakeibo", cfg.Git.AuthorName)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: csv\nreport:\n  top_categories: 8\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverCSV, cfg.Store.Driver)
	assert.Equal(t, "data", cfg.Store.Path)
	assert.Equal(t, 8, cfg.Report.TopCategories)
	assert.Equal(t, "import", cfg.Import.Inbox)
	assert.Equal(t, "uncategorized", cfg.Report.UncategorizedLabel)
}

func TestLoadExplicitZeroThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("report:\n  alert_threshold: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Zero(t, cfg.Report.AlertThreshold)
	assert.Equal(t, 5, cfg.Report.TopCategories)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDirWithoutConfig(t *testing.T) {
	cfg, err := LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("store: [unterminated"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, Default())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "driver: sqlite")
	assert.Contains(t, contents, "asset_strategy: overwrite")
	assert.Contains(t, contents, "top_categories: 5")
	assert.Contains(t, contents, "transaction_sheet: マスタ")
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("proj", "kakeibo.db"), Resolve("proj", "kakeibo.db"))
	abs := filepath.Join(t.TempDir(), "x.db")
	assert.Equal(t, abs, Resolve("proj", abs))
}
