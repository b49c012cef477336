package model

import "github.com/shopspring/decimal"

// Asset is a point-in-time balance snapshot keyed by Date.
//
// Breakdown columns are nullable: Valid=false means the column was absent or
// blank in the source ("unknown"), a valid zero means the source reported 0.
type Asset struct {
	Date   string // YYYY-MM-DD, natural key
	Total  decimal.NullDecimal
	Cash   decimal.NullDecimal
	Stocks decimal.NullDecimal
	Funds  decimal.NullDecimal
	Points decimal.NullDecimal
}

// RowError reports validation failures for one source row.
type RowError struct {
	RowNumber int
	Messages  []string
}
