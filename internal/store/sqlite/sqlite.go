// Package sqlite is the SQLite-backed record store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// Memory opens a private in-memory database.
const Memory = ":memory:"

const (
	upsertTransaction = `INSERT INTO transactions
	(id, date, amount, description, institution, major_category, minor_category, memo, is_transfer, is_included, source_file)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		date = excluded.date,
		amount = excluded.amount,
		description = excluded.description,
		institution = excluded.institution,
		major_category = excluded.major_category,
		minor_category = excluded.minor_category,
		memo = excluded.memo,
		is_transfer = excluded.is_transfer,
		is_included = excluded.is_included,
		source_file = excluded.source_file`

	upsertAsset = `INSERT INTO assets (date, total, cash, stocks, funds, points)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(date) DO UPDATE SET
		total = excluded.total,
		cash = excluded.cash,
		stocks = excluded.stocks,
		funds = excluded.funds,
		points = excluded.points`

	selectTransactions = `SELECT id, date, amount, description, institution, major_category, minor_category, memo, is_transfer, is_included, source_file
	FROM transactions ORDER BY date, id`

	selectAssets = `SELECT date, total, cash, stocks, funds, points FROM assets ORDER BY date`
)

// Store keeps transactions and assets in one SQLite database. Amounts are
// stored as decimal text.
type Store struct {
	db *sql.DB
}

// Open opens the database at path, creating it and its schema if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != Memory {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating store dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertTransactions writes each transaction, replacing any row with the
// same id.
func (s *Store) UpsertTransactions(ctx context.Context, txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	stmt, err := s.db.PrepareContext(ctx, upsertTransaction)
	if err != nil {
		return fmt.Errorf("preparing transaction upsert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txns {
		if _, err := stmt.ExecContext(ctx,
			t.ID, t.Date, t.Amount.String(), t.Description, t.Institution,
			t.MajorCategory, t.MinorCategory, t.Memo,
			boolInt(t.IsTransfer), boolInt(t.IsIncluded), t.SourceFile,
		); err != nil {
			return fmt.Errorf("upserting transaction %s: %w", t.ID, err)
		}
	}
	return nil
}

// UpsertAssets writes each asset, replacing any row with the same date.
func (s *Store) UpsertAssets(ctx context.Context, assets []model.Asset) error {
	if len(assets) == 0 {
		return nil
	}
	stmt, err := s.db.PrepareContext(ctx, upsertAsset)
	if err != nil {
		return fmt.Errorf("preparing asset upsert: %w", err)
	}
	defer stmt.Close()

	for _, a := range assets {
		if _, err := stmt.ExecContext(ctx, a.Date, a.Total, a.Cash, a.Stocks, a.Funds, a.Points); err != nil {
			return fmt.Errorf("upserting asset %s: %w", a.Date, err)
		}
	}
	return nil
}

// AllTransactions returns every stored transaction ordered by date.
func (s *Store) AllTransactions(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, selectTransactions)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var (
			t                    model.Transaction
			isTransfer, included int
		)
		if err := rows.Scan(
			&t.ID, &t.Date, &t.Amount, &t.Description, &t.Institution,
			&t.MajorCategory, &t.MinorCategory, &t.Memo,
			&isTransfer, &included, &t.SourceFile,
		); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		t.IsTransfer = isTransfer != 0
		t.IsIncluded = included != 0
		out = append(out, t)
	}
	return out, rows.Err()
}

// AllAssets returns every stored asset ordered by date.
func (s *Store) AllAssets(ctx context.Context) ([]model.Asset, error) {
	rows, err := s.db.QueryContext(ctx, selectAssets)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer rows.Close()

	var out []model.Asset
	for rows.Next() {
		var a model.Asset
		if err := rows.Scan(&a.Date, &a.Total, &a.Cash, &a.Stocks, &a.Funds, &a.Points); err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
