// Package tabular holds the header-keyed row shape shared by CSV and
// spreadsheet sources.
package tabular

// Cell is one header/value pair. Value is a string for CSV sources; sheet
// sources may also produce float64 (numbers and date serials).
type Cell struct {
	Header string
	Value  any
}

// RawRow is one data row in source order. Number is the 1-based source row
// number, with the header on row 1.
type RawRow struct {
	Number int
	Cells  []Cell
}

// Get returns the value under header h, or nil if the row has no such cell.
// With duplicate headers the last cell wins.
func (r RawRow) Get(h string) any {
	var v any
	for _, c := range r.Cells {
		if c.Header == h {
			v = c.Value
		}
	}
	return v
}

// Table is a header line plus its data rows.
type Table struct {
	Headers []string
	Rows    []RawRow
}
