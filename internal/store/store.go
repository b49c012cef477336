// Package store defines the keyed record store that import sessions write
// to and the aggregation views read from.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/kakeibo-dev/kakeibo/internal/config"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/store/csvfile"
	"github.com/kakeibo-dev/kakeibo/internal/store/sqlite"
)

// ErrUnknownDriver is returned by Open for an unsupported store.driver.
var ErrUnknownDriver = errors.New("unknown store driver")

// Store persists transactions keyed by ID and assets keyed by date. Upserts
// overwrite by key; each record is written independently, so a failure
// part-way leaves earlier records in place.
type Store interface {
	UpsertTransactions(ctx context.Context, txns []model.Transaction) error
	UpsertAssets(ctx context.Context, assets []model.Asset) error
	AllTransactions(ctx context.Context) ([]model.Transaction, error)
	AllAssets(ctx context.Context) ([]model.Asset, error)
	Close() error
}

var (
	_ Store = (*sqlite.Store)(nil)
	_ Store = (*csvfile.Store)(nil)
)

// Open opens the store configured for the project rooted at dir.
func Open(ctx context.Context, dir string, cfg config.StoreConfig) (Store, error) {
	path := cfg.Path
	if path == "" {
		path = config.DefaultStorePath(cfg.Driver)
	}
	path = config.Resolve(dir, path)

	switch cfg.Driver {
	case config.DriverSQLite, "":
		s, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, nil
	case config.DriverCSV:
		s, err := csvfile.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening csv store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
