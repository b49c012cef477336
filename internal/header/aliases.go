package header

import "github.com/kakeibo-dev/kakeibo/internal/model"

// Table maps normalized header spellings to canonical fields for one record
// kind. Tables are built once and never mutated.
type Table struct {
	Kind     model.Kind
	aliases  map[string]model.Field
	fields   []model.Field
	required []model.Field
}

func newTable(kind model.Kind, raw map[string]model.Field, fields, required []model.Field) *Table {
	aliases := make(map[string]model.Field, len(raw))
	for h, f := range raw {
		aliases[Normalize(h)] = f
	}
	return &Table{Kind: kind, aliases: aliases, fields: fields, required: required}
}

// Lookup returns the canonical field for a normalized header.
func (t *Table) Lookup(normalized string) (model.Field, bool) {
	f, ok := t.aliases[normalized]
	return f, ok
}

// Fields returns every canonical field of the kind.
func (t *Table) Fields() []model.Field {
	return t.fields
}

// Required returns the fields an import cannot proceed without.
func (t *Table) Required() []model.Field {
	return t.required
}

// Has reports whether f is a canonical field of this kind.
func (t *Table) Has(f model.Field) bool {
	for _, x := range t.fields {
		if x == f {
			return true
		}
	}
	return false
}

// PrimaryAlias returns the normalized spelling of the first listed alias of
// f, used as a decoding hint.
func (t *Table) PrimaryAlias(f model.Field) string {
	return primary[t.Kind][f]
}

// Transactions is the alias table for ledger exports.
var Transactions = newTable(model.KindTransactions, map[string]model.Field{
	"日付":          model.FieldDate,
	"内容":          model.FieldDescription,
	"金額（円)":       model.FieldAmount,
	"金額（円）":       model.FieldAmount,
	"保有金融機関":      model.FieldInstitution,
	"大項目":         model.FieldMajorCategory,
	"中項目":         model.FieldMinorCategory,
	"メモ":          model.FieldMemo,
	"振替(0/1)":     model.FieldIsTransfer,
	"ID":          model.FieldID,
	"計算対象(0/1)":   model.FieldIsIncluded,
	"Source.Name": model.FieldSourceFile,
}, []model.Field{
	model.FieldID, model.FieldDate, model.FieldAmount, model.FieldDescription,
	model.FieldInstitution, model.FieldMajorCategory, model.FieldMinorCategory,
	model.FieldMemo, model.FieldIsTransfer, model.FieldIsIncluded, model.FieldSourceFile,
}, nil)

// Assets is the alias table for balance-history exports.
var Assets = newTable(model.KindAssets, map[string]model.Field{
	"日付":    model.FieldDate,
	"合計（円）": model.FieldTotal,
	"合計(円)": model.FieldTotal,
	"預金・現金・暗号資産（円）": model.FieldCash,
	"預金・現金・暗号資産(円)": model.FieldCash,
	"株式(現物)（円）":     model.FieldStocks,
	"株式(現物)(円)":     model.FieldStocks,
	"投資信託（円）":       model.FieldFunds,
	"投資信託(円)":       model.FieldFunds,
	"ポイント（円）":       model.FieldPoints,
	"ポイント(円)":       model.FieldPoints,
}, []model.Field{
	model.FieldDate, model.FieldTotal, model.FieldCash, model.FieldStocks,
	model.FieldFunds, model.FieldPoints,
}, []model.Field{model.FieldDate, model.FieldTotal})

var primary = map[model.Kind]map[model.Field]string{
	model.KindTransactions: {
		model.FieldDate:        Normalize("日付"),
		model.FieldDescription: Normalize("内容"),
		model.FieldAmount:      Normalize("金額（円）"),
	},
	model.KindAssets: {
		model.FieldDate:  Normalize("日付"),
		model.FieldTotal: Normalize("合計（円）"),
	},
}

// ForKind returns the alias table of kind.
func ForKind(kind model.Kind) *Table {
	if kind == model.KindAssets {
		return Assets
	}
	return Transactions
}
