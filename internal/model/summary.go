package model

import "github.com/shopspring/decimal"

// MonthlyBucket is a derived per-month rollup. Income, Expense and Transfer
// are non-negative; Net = Income - Expense.
type MonthlyBucket struct {
	Month    string // YYYY-MM
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Transfer decimal.Decimal
	Net      decimal.Decimal
}

// CategoryTotal is the summed expense of one major category.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}
