package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project config file created by `kakeibo init`.
const FileName = "kakeibo.yaml"

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverCSV    = "csv"
)

// Config represents the top-level kakeibo.yaml configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Import  ImportConfig  `yaml:"import"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
	Git     GitConfig     `yaml:"git"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"` // relative to the project dir
}

// ImportConfig controls where source files are picked up and how they are read.
type ImportConfig struct {
	Inbox            string `yaml:"inbox"`
	Processed        string `yaml:"processed"`
	TransactionSheet string `yaml:"transaction_sheet"`
	AssetSheet       string `yaml:"asset_sheet"`
	AssetStrategy    string `yaml:"asset_strategy"` // overwrite | skip
}

// ReportConfig tunes the derived views.
type ReportConfig struct {
	TopCategories      int     `yaml:"top_categories"`
	AlertThreshold     float64 `yaml:"alert_threshold"` // 0 alerts on any rise over the mean
	UncategorizedLabel string  `yaml:"uncategorized_label"`
}

// LoggingConfig sets the default log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a kakeibo.yaml file from disk. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	cfg.Store.Path = ""
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath(cfg.Store.Driver)
	}
	return cfg, nil
}

// LoadDir reads the config of the project rooted at dir, falling back to
// Default when the project has no config file.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: DriverSQLite,
			Path:   DefaultStorePath(DriverSQLite),
		},
		Import: ImportConfig{
			Inbox:            "import",
			Processed:        filepath.Join("import", "processed"),
			TransactionSheet: "マスタ",
			AssetSheet:       "資産推移",
			AssetStrategy:    "overwrite",
		},
		Report: ReportConfig{
			TopCategories:      5,
			AlertThreshold:     0.30,
			UncategorizedLabel: "uncategorized",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Git: GitConfig{
			AuthorName:  "kakeibo",
			AuthorEmail: "kakeibo@localhost",
		},
	}
}

// DefaultStorePath is the store location used when store.path is unset.
func DefaultStorePath(driver string) string {
	if driver == DriverCSV {
		return "data"
	}
	return "kakeibo.db"
}

// Resolve returns p joined to dir unless p is absolute.
func Resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
