package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/kakeibo-dev/kakeibo/internal/aggregate"
	"github.com/kakeibo-dev/kakeibo/internal/config"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/store"
)

// project is an opened project directory and its config.
type project struct {
	dir string
	cfg *config.Config
}

func openProject(opts *globalOptions) (*project, error) {
	dir, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return &project{dir: dir, cfg: cfg}, nil
}

func (p *project) openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, p.dir, p.cfg.Store)
}

func (p *project) path(rel string) string {
	return config.Resolve(p.dir, rel)
}

func (p *project) engine() *aggregate.Engine {
	return aggregate.New(aggregate.Options{
		TopLimit:           p.cfg.Report.TopCategories,
		AlertThreshold:     decimal.NewNullDecimal(decimal.NewFromFloat(p.cfg.Report.AlertThreshold)),
		UncategorizedLabel: p.cfg.Report.UncategorizedLabel,
	})
}

// sheetFor returns the configured workbook sheet for kind.
func (p *project) sheetFor(kind model.Kind) string {
	if kind == model.KindAssets {
		return p.cfg.Import.AssetSheet
	}
	return p.cfg.Import.TransactionSheet
}

// snapshot loads every stored record.
func (p *project) snapshot(ctx context.Context) ([]model.Transaction, []model.Asset, error) {
	st, err := p.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	txns, err := st.AllTransactions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading transactions: %w", err)
	}
	assets, err := st.AllAssets(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading assets: %w", err)
	}
	return txns, assets, nil
}
