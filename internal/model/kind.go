package model

import "fmt"

// Kind identifies which record family an import produces.
type Kind string

const (
	KindTransactions Kind = "transactions"
	KindAssets       Kind = "assets"
)

// ParseKind accepts "transactions"/"assets" (and their singular forms).
func ParseKind(s string) (Kind, error) {
	switch s {
	case "transactions", "transaction", "tx":
		return KindTransactions, nil
	case "assets", "asset":
		return KindAssets, nil
	default:
		return "", fmt.Errorf("unknown record kind %q", s)
	}
}

// Field is a canonical column name, independent of the raw header spelling.
type Field string

// Transaction fields.
const (
	FieldID            Field = "id"
	FieldDate          Field = "date"
	FieldAmount        Field = "amount"
	FieldDescription   Field = "description"
	FieldInstitution   Field = "institution"
	FieldMajorCategory Field = "majorCategory"
	FieldMinorCategory Field = "minorCategory"
	FieldMemo          Field = "memo"
	FieldIsTransfer    Field = "isTransfer"
	FieldIsIncluded    Field = "isIncluded"
	FieldSourceFile    Field = "sourceFile"
)

// Asset fields. FieldDate is shared.
const (
	FieldTotal  Field = "total"
	FieldCash   Field = "cash"
	FieldStocks Field = "stocks"
	FieldFunds  Field = "funds"
	FieldPoints Field = "points"
)
