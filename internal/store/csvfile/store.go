// Package csvfile is a record store kept as two plain CSV files,
// transactions.csv and assets.csv, in one directory.
package csvfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// File names inside the store directory.
const (
	TransactionsFile = "transactions.csv"
	AssetsFile       = "assets.csv"
)

// Store rewrites the whole file on every upsert. Existing keys keep their
// position; new keys are appended.
type Store struct {
	dir string
	mu  sync.Mutex
}

// Open returns a store rooted at dir, creating the directory if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Close is a no-op; files are closed after every call.
func (s *Store) Close() error { return nil }

// UpsertTransactions merges txns into transactions.csv by id.
func (s *Store) UpsertTransactions(ctx context.Context, txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readTransactions()
	if err != nil {
		return err
	}
	merged := merge(existing, txns, func(t model.Transaction) string { return t.ID })
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := WriteTransactions(&buf, merged); err != nil {
		return fmt.Errorf("encoding transactions: %w", err)
	}
	return s.replace(TransactionsFile, buf.Bytes())
}

// UpsertAssets merges assets into assets.csv by date.
func (s *Store) UpsertAssets(ctx context.Context, assets []model.Asset) error {
	if len(assets) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readAssets()
	if err != nil {
		return err
	}
	merged := merge(existing, assets, func(a model.Asset) string { return a.Date })
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := WriteAssets(&buf, merged); err != nil {
		return fmt.Errorf("encoding assets: %w", err)
	}
	return s.replace(AssetsFile, buf.Bytes())
}

// AllTransactions returns the contents of transactions.csv.
func (s *Store) AllTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readTransactions()
}

// AllAssets returns the contents of assets.csv.
func (s *Store) AllAssets(ctx context.Context) ([]model.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAssets()
}

func (s *Store) readTransactions() ([]model.Transaction, error) {
	path := filepath.Join(s.dir, TransactionsFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return txns, nil
}

func (s *Store) readAssets() ([]model.Asset, error) {
	path := filepath.Join(s.dir, AssetsFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	assets, err := ReadAssets(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return assets, nil
}

// replace writes data to a temp file and renames it over name.
func (s *Store) replace(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// merge overwrites existing records by key and appends unseen keys in
// incoming order. A key repeated in incoming keeps its last value.
func merge[T any](existing, incoming []T, key func(T) string) []T {
	out := make([]T, len(existing), len(existing)+len(incoming))
	copy(out, existing)
	index := make(map[string]int, len(out))
	for i, r := range out {
		index[key(r)] = i
	}
	for _, r := range incoming {
		k := key(r)
		if i, ok := index[k]; ok {
			out[i] = r
			continue
		}
		index[k] = len(out)
		out = append(out, r)
	}
	return out
}
