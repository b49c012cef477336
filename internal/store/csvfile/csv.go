package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// TransactionHeader is the CSV header for transactions.csv.
const TransactionHeader = "id,date,amount,description,institution,major_category,minor_category,memo,is_transfer,is_included,source_file"

// AssetHeader is the CSV header for assets.csv.
const AssetHeader = "date,total,cash,stocks,funds,points"

const (
	numTxnFields = 11
	colID        = 0
	colDate      = 1
	colAmount    = 2
	colDesc      = 3
	colInst      = 4
	colMajor     = 5
	colMinor     = 6
	colMemo      = 7
	colTransfer  = 8
	colIncluded  = 9
	colSource    = 10
)

const (
	numAssetFields = 6
	colAssetDate   = 0
	colTotal       = 1
	colCash        = 2
	colStocks      = 3
	colFunds       = 4
	colPoints      = 5
)

// ReadTransactions reads all transactions from a transactions.csv reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	records, err := readAll(r, numTxnFields)
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	var out []model.Transaction
	for i, rec := range records {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// WriteTransactions writes transactions (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(TransactionHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numTxnFields)
	row[colID] = t.ID
	row[colDate] = t.Date
	row[colAmount] = t.Amount.String()
	row[colDesc] = t.Description
	row[colInst] = t.Institution
	row[colMajor] = t.MajorCategory
	row[colMinor] = t.MinorCategory
	row[colMemo] = t.Memo
	row[colTransfer] = flag(t.IsTransfer)
	row[colIncluded] = flag(t.IsIncluded)
	row[colSource] = t.SourceFile
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numTxnFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numTxnFields, len(record))
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	return model.Transaction{
		ID:            record[colID],
		Date:          record[colDate],
		Amount:        amount,
		Description:   record[colDesc],
		Institution:   record[colInst],
		MajorCategory: record[colMajor],
		MinorCategory: record[colMinor],
		Memo:          record[colMemo],
		IsTransfer:    record[colTransfer] == "1",
		IsIncluded:    record[colIncluded] == "1",
		SourceFile:    record[colSource],
	}, nil
}

// ReadAssets reads all assets from an assets.csv reader.
func ReadAssets(r io.Reader) ([]model.Asset, error) {
	records, err := readAll(r, numAssetFields)
	if err != nil {
		return nil, fmt.Errorf("reading assets CSV: %w", err)
	}
	var out []model.Asset
	for i, rec := range records {
		a, err := UnmarshalAsset(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// WriteAssets writes assets (including header).
func WriteAssets(w io.Writer, assets []model.Asset) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(AssetHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, a := range assets {
		if err := cw.Write(MarshalAsset(a)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAsset converts an Asset to a CSV row. Null amounts become empty cells.
func MarshalAsset(a model.Asset) []string {
	row := make([]string, numAssetFields)
	row[colAssetDate] = a.Date
	row[colTotal] = nullString(a.Total)
	row[colCash] = nullString(a.Cash)
	row[colStocks] = nullString(a.Stocks)
	row[colFunds] = nullString(a.Funds)
	row[colPoints] = nullString(a.Points)
	return row
}

// UnmarshalAsset converts a CSV row to an Asset.
func UnmarshalAsset(record []string) (model.Asset, error) {
	if len(record) != numAssetFields {
		return model.Asset{}, fmt.Errorf("expected %d fields, got %d", numAssetFields, len(record))
	}
	a := model.Asset{Date: record[colAssetDate]}
	for _, f := range []struct {
		col  int
		name string
		dst  *decimal.NullDecimal
	}{
		{colTotal, "total", &a.Total},
		{colCash, "cash", &a.Cash},
		{colStocks, "stocks", &a.Stocks},
		{colFunds, "funds", &a.Funds},
		{colPoints, "points", &a.Points},
	} {
		if record[f.col] == "" {
			continue
		}
		v, err := decimal.NewFromString(record[f.col])
		if err != nil {
			return model.Asset{}, fmt.Errorf("parsing %s %q: %w", f.name, record[f.col], err)
		}
		*f.dst = decimal.NewNullDecimal(v)
	}
	return a, nil
}

// readAll returns the data records, skipping the header row.
func readAll(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
