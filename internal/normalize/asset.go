package normalize

import (
	"github.com/kakeibo-dev/kakeibo/internal/header"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/tabular"
)

// Row error messages.
const (
	MsgInvalidDate  = "invalid date"
	MsgInvalidTotal = "invalid total"
)

// AssetBatch holds the accepted snapshots and a RowError for every row that
// failed validation, whether or not the row survived.
type AssetBatch struct {
	Items  []model.Asset
	Errors []model.RowError
}

// Asset builds an Asset from a canonical row and lists its validation
// failures. Total is mandatory; breakdown columns stay null when absent or
// blank.
func Asset(row map[model.Field]any) (model.Asset, []string) {
	a := model.Asset{
		Date:   Date(row[model.FieldDate]),
		Total:  Number(row[model.FieldTotal]),
		Cash:   Number(row[model.FieldCash]),
		Stocks: Number(row[model.FieldStocks]),
		Funds:  Number(row[model.FieldFunds]),
		Points: Number(row[model.FieldPoints]),
	}
	var msgs []string
	if a.Date == "" {
		msgs = append(msgs, MsgInvalidDate)
	}
	if !a.Total.Valid {
		msgs = append(msgs, MsgInvalidTotal)
	}
	return a, msgs
}

// Assets maps and validates every row. Only rows with both a date and a
// total become items.
func Assets(rows []tabular.RawRow, table *header.Table, overrides header.Overrides) AssetBatch {
	var b AssetBatch
	for _, r := range rows {
		a, msgs := Asset(header.Map(r, table, overrides))
		if len(msgs) > 0 {
			b.Errors = append(b.Errors, model.RowError{RowNumber: r.Number, Messages: msgs})
		}
		if a.Date == "" || !a.Total.Valid {
			continue
		}
		b.Items = append(b.Items, a)
	}
	return b
}
