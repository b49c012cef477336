package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo-dev/kakeibo/internal/model"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Memory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func nd(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func TestUpsertTransactionsOverwritesByID(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	first := model.Transaction{
		ID: "H1", Date: "2026-01-05", Amount: decimal.NewFromInt(-450),
		Description: "コーヒー", MajorCategory: "食費", IsIncluded: true, SourceFile: "a.csv",
	}
	other := model.Transaction{
		ID: "H2", Date: "2026-01-03", Amount: decimal.RequireFromString("1000.5"),
		Description: "返金", IsTransfer: true,
	}
	require.NoError(t, s.UpsertTransactions(ctx, []model.Transaction{first, other}))

	updated := first
	updated.Memo = "edited"
	updated.IsIncluded = false
	require.NoError(t, s.UpsertTransactions(ctx, []model.Transaction{updated}))

	got, err := s.AllTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "H2", got[0].ID)
	assert.True(t, got[0].IsTransfer)
	assert.False(t, got[0].IsIncluded)
	assert.True(t, decimal.RequireFromString("1000.5").Equal(got[0].Amount))

	assert.Equal(t, "H1", got[1].ID)
	assert.Equal(t, "edited", got[1].Memo)
	assert.False(t, got[1].IsIncluded)
	assert.Equal(t, "食費", got[1].MajorCategory)
	assert.Equal(t, "a.csv", got[1].SourceFile)
	assert.True(t, decimal.NewFromInt(-450).Equal(got[1].Amount))
}

func TestUpsertAssetsKeepsNulls(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	require.NoError(t, s.UpsertAssets(ctx, []model.Asset{
		{Date: "2026-01-31", Total: nd(1200000), Cash: nd(0)},
		{Date: "2025-12-31", Total: nd(1100000), Stocks: nd(500000)},
	}))

	got, err := s.AllAssets(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "2025-12-31", got[0].Date)
	assert.False(t, got[0].Cash.Valid)
	assert.True(t, got[0].Stocks.Valid)

	jan := got[1]
	assert.True(t, jan.Total.Decimal.Equal(decimal.NewFromInt(1200000)))
	require.True(t, jan.Cash.Valid)
	assert.True(t, jan.Cash.Decimal.IsZero())
	assert.False(t, jan.Stocks.Valid)
	assert.False(t, jan.Funds.Valid)
	assert.False(t, jan.Points.Valid)
}

func TestUpsertAssetsOverwritesByDate(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	require.NoError(t, s.UpsertAssets(ctx, []model.Asset{{Date: "2026-01-31", Total: nd(1), Cash: nd(1)}}))
	require.NoError(t, s.UpsertAssets(ctx, []model.Asset{{Date: "2026-01-31", Total: nd(2)}}))

	got, err := s.AllAssets(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Total.Decimal.Equal(decimal.NewFromInt(2)))
	assert.False(t, got[0].Cash.Valid)
}

func TestEmptyUpsertsAndReads(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	require.NoError(t, s.UpsertTransactions(ctx, nil))
	require.NoError(t, s.UpsertAssets(ctx, nil))

	txns, err := s.AllTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txns)
	assets, err := s.AllAssets(ctx)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestReopenFileKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "kakeibo.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.UpsertAssets(ctx, []model.Asset{{Date: "2026-01-31", Total: nd(5)}}))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.AllAssets(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, schemaVersion, version)
}

func TestOpenRefusesNewerSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kakeibo.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.db.Exec("PRAGMA user_version = 9")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(ctx, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}
