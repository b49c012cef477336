package normalize

import (
	"github.com/kakeibo-dev/kakeibo/internal/header"
	"github.com/kakeibo-dev/kakeibo/internal/id"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/tabular"
)

// Transaction builds a Transaction from a canonical row. ok is false when the
// row is dropped: it has none of date/description/amount, or its date or
// description ends up empty. Dropped rows carry no reason.
func Transaction(row map[model.Field]any, sourceFile string) (model.Transaction, bool) {
	if !present(row[model.FieldDate]) && !present(row[model.FieldDescription]) && !present(row[model.FieldAmount]) {
		return model.Transaction{}, false
	}

	date := Date(row[model.FieldDate])
	amount := Amount(row[model.FieldAmount])
	description := Text(row[model.FieldDescription])
	institution := Text(row[model.FieldInstitution])

	explicit := ""
	if present(row[model.FieldID]) {
		explicit = Text(row[model.FieldID])
	}
	source := sourceFile
	if present(row[model.FieldSourceFile]) {
		source = Text(row[model.FieldSourceFile])
	}

	tx := model.Transaction{
		ID:            id.Transaction(explicit, date, amount, description, institution),
		Date:          date,
		Amount:        amount,
		Description:   description,
		Institution:   institution,
		MajorCategory: Text(row[model.FieldMajorCategory]),
		MinorCategory: Text(row[model.FieldMinorCategory]),
		Memo:          Text(row[model.FieldMemo]),
		IsTransfer:    Flag(row[model.FieldIsTransfer], false),
		IsIncluded:    Flag(row[model.FieldIsIncluded], true),
		SourceFile:    source,
	}
	if tx.Date == "" || tx.Description == "" {
		return model.Transaction{}, false
	}
	return tx, true
}

// TransactionBatch is the outcome of normalizing one import's rows.
type TransactionBatch struct {
	Items   []model.Transaction
	Dropped int
}

// Transactions maps and normalizes every row, keeping source order.
func Transactions(rows []tabular.RawRow, table *header.Table, overrides header.Overrides, sourceFile string) TransactionBatch {
	var b TransactionBatch
	for _, r := range rows {
		tx, ok := Transaction(header.Map(r, table, overrides), sourceFile)
		if !ok {
			b.Dropped++
			continue
		}
		b.Items = append(b.Items, tx)
	}
	return b
}
