package model

import "github.com/shopspring/decimal"

// Transaction is one normalized ledger row. Stored records always carry a
// non-empty Date and Description.
type Transaction struct {
	ID            string
	Date          string          // YYYY-MM-DD, empty if unparsable
	Amount        decimal.Decimal // negative = expense, positive = income
	Description   string
	Institution   string
	MajorCategory string
	MinorCategory string
	Memo          string
	IsTransfer    bool
	IsIncluded    bool
	SourceFile    string
}

// Month returns the YYYY-MM bucket of the transaction date, or "" when the
// date is missing.
func (t Transaction) Month() string {
	return MonthOf(t.Date)
}

// MonthOf returns the YYYY-MM prefix of an ISO date.
func MonthOf(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}
