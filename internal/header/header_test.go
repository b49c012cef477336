package header

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/tabular"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" 合計（円） ", "合計(円)"},
		{"合計(円)", "合計(円)"},
		{"\ufeff日付", "日付"},
		{"株式(現物)（円）", "株式(現物)(円)"},
		{"Source  .\tName", "Source . Name"},
		{"　全角　スペース　", "全角 スペース"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		" 合計（円） ",
		" \ufeff投資信託（円）",
		"\ufeff  a \t b  ",
		"ポイント　（円）",
		"x y",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_ParenthesisVariants(t *testing.T) {
	assert.Equal(t, Normalize("合計（円）"), Normalize("合計(円)"))
	assert.Equal(t, Normalize("金額（円)"), Normalize("金額（円）"))
}

func TestLookup(t *testing.T) {
	f, ok := Assets.Lookup(Normalize("合計（円）"))
	require.True(t, ok)
	assert.Equal(t, model.FieldTotal, f)

	f, ok = Transactions.Lookup(Normalize("金額（円)"))
	require.True(t, ok)
	assert.Equal(t, model.FieldAmount, f)

	_, ok = Transactions.Lookup("残高")
	assert.False(t, ok)
}

func TestMap(t *testing.T) {
	row := tabular.RawRow{Number: 2, Cells: []tabular.Cell{
		{Header: "日付", Value: "2026/1/4"},
		{Header: " 内容 ", Value: "コーヒー"},
		{Header: "残高", Value: "999"},
		{Header: "金額（円）", Value: "-450"},
	}}

	got := Map(row, Transactions, nil)
	assert.Equal(t, map[model.Field]any{
		model.FieldDate:        "2026/1/4",
		model.FieldDescription: "コーヒー",
		model.FieldAmount:      "-450",
	}, got)
}

func TestMap_OverrideWins(t *testing.T) {
	row := tabular.RawRow{Cells: []tabular.Cell{
		{Header: "日付", Value: "2026-01-04"},
		{Header: "内容", Value: "memo text"},
		{Header: "摘要", Value: "description text"},
	}}
	o := Overrides{}.With("内容", model.FieldMemo).With("摘要", model.FieldDescription)

	got := Map(row, Transactions, o)
	assert.Equal(t, "memo text", got[model.FieldMemo])
	assert.Equal(t, "description text", got[model.FieldDescription])
}

func TestMissingRequired(t *testing.T) {
	headers := []string{"日付", "預金・現金・暗号資産（円）", "総資産"}

	missing := MissingRequired(headers, Assets, nil, Assets.Required())
	assert.Equal(t, []model.Field{model.FieldTotal}, missing)

	o, err := ParseOverrides([]string{"総資産=total"}, Assets)
	require.NoError(t, err)
	assert.Empty(t, MissingRequired(headers, Assets, o, Assets.Required()))
}

func TestMissingRequired_NothingRequired(t *testing.T) {
	assert.Empty(t, MissingRequired(nil, Transactions, nil, Transactions.Required()))
}

func TestParseOverride(t *testing.T) {
	h, f, err := ParseOverride(" 総資産（円） = total", Assets)
	require.NoError(t, err)
	assert.Equal(t, "総資産(円)", h)
	assert.Equal(t, model.FieldTotal, f)

	h, f, err = ParseOverride("a=b=memo", Transactions)
	require.NoError(t, err)
	assert.Equal(t, "a=b", h)
	assert.Equal(t, model.FieldMemo, f)
}

func TestParseOverride_Errors(t *testing.T) {
	for _, spec := range []string{"", "=total", "総資産=", "no-equals"} {
		_, _, err := ParseOverride(spec, Assets)
		assert.Error(t, err, "spec %q", spec)
	}

	_, _, err := ParseOverride("x=amount", Assets)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestDecodeHints(t *testing.T) {
	assert.Equal(t, []string{"日付", "合計(円)"}, DecodeHints(Assets, nil))

	o := Overrides{}.With("総資産", model.FieldTotal)
	assert.Equal(t, []string{"日付"}, DecodeHints(Assets, o))

	assert.Empty(t, DecodeHints(Transactions, nil))
}

func TestForKind(t *testing.T) {
	assert.Same(t, Assets, ForKind(model.KindAssets))
	assert.Same(t, Transactions, ForKind(model.KindTransactions))
}
