package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo-dev/kakeibo/internal/model"
)

func nd(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func TestUpsertTransactionsMergesByID(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	a := model.Transaction{ID: "H1", Date: "2026-01-05", Amount: decimal.NewFromInt(-450), Description: "コーヒー", IsIncluded: true}
	b := model.Transaction{ID: "H2", Date: "2026-01-06", Amount: decimal.NewFromInt(-1200), Description: "ランチ, 定食", IsIncluded: true}
	require.NoError(t, s.UpsertTransactions(ctx, []model.Transaction{a, b}))

	a.Memo = "edited"
	c := model.Transaction{ID: "H3", Date: "2026-01-01", Amount: decimal.NewFromInt(300000), Description: "給与", IsTransfer: true}
	require.NoError(t, s.UpsertTransactions(ctx, []model.Transaction{c, a}))

	got, err := s.AllTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"H1", "H2", "H3"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "edited", got[0].Memo)
	assert.Equal(t, "ランチ, 定食", got[1].Description)
	assert.True(t, got[2].IsTransfer)
	assert.False(t, got[2].IsIncluded)
	assert.True(t, decimal.NewFromInt(300000).Equal(got[2].Amount))
}

func TestUpsertAssetsNullCells(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, s.UpsertAssets(ctx, []model.Asset{
		{Date: "2026-01-31", Total: nd(1200000), Cash: nd(0)},
	}))

	data, err := os.ReadFile(filepath.Join(dir, AssetsFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{AssetHeader, "2026-01-31,1200000,0,,,"}, lines)

	got, err := s.AllAssets(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Cash.Valid)
	assert.False(t, got[0].Stocks.Valid)
}

func TestUpsertAssetsOverwriteByDate(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.UpsertAssets(ctx, []model.Asset{{Date: "2026-01-31", Total: nd(1)}, {Date: "2026-02-28", Total: nd(2)}}))
	require.NoError(t, s.UpsertAssets(ctx, []model.Asset{{Date: "2026-01-31", Total: nd(10)}}))

	got, err := s.AllAssets(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-01-31", got[0].Date)
	assert.True(t, got[0].Total.Decimal.Equal(decimal.NewFromInt(10)))
}

func TestEmptyStore(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	txns, err := s.AllTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txns)
	assets, err := s.AllAssets(ctx)
	require.NoError(t, err)
	assert.Empty(t, assets)
	require.NoError(t, s.Close())
}

func TestCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, AssetsFile), []byte(AssetHeader+"\n2026-01-31,abc,,,,\n"), 0o644))
	s, err := Open(dir)
	require.NoError(t, err)

	_, err = s.AllAssets(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "parsing total")
}

func TestUnmarshalTransactionFieldCount(t *testing.T) {
	_, err := UnmarshalTransaction([]string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 11 fields")
}

func TestMarshalTransactionRoundTrip(t *testing.T) {
	in := model.Transaction{
		ID: "X", Date: "2026-01-05", Amount: decimal.RequireFromString("-450.25"),
		Description: "d", Institution: "i", MajorCategory: "ma", MinorCategory: "mi",
		Memo: "m", IsTransfer: true, IsIncluded: true, SourceFile: "f.csv",
	}
	out, err := UnmarshalTransaction(MarshalTransaction(in))
	require.NoError(t, err)
	assert.True(t, in.Amount.Equal(out.Amount))
	out.Amount = in.Amount
	assert.Equal(t, in, out)
}
