package tabular

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadSheet reads a workbook and returns the rows of the sheet named
// preferred, or of the first sheet when no sheet has that name.
//
// Numeric cells (including date serials) become float64 values, everything
// else stays a string. Missing cells default to "" and fully blank rows are
// skipped; RawRow.Number is the spreadsheet row.
func ReadSheet(r io.Reader, preferred string) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, errors.New("workbook has no sheets")
	}
	sheet := sheets[0]
	if preferred != "" && slices.Contains(sheets, preferred) {
		sheet = preferred
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Table{}, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return Table{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var out []RawRow
	for i, rec := range rows[1:] {
		rowNum := i + 2
		if isBlank(rec) {
			continue
		}
		cells := make([]Cell, len(headers))
		for j, h := range headers {
			cells[j] = Cell{Header: h, Value: ""}
			if j >= len(rec) || rec[j] == "" {
				continue
			}
			v, err := cellValue(f, sheet, j+1, rowNum, rec[j])
			if err != nil {
				return Table{}, fmt.Errorf("row %d: %w", rowNum, err)
			}
			cells[j].Value = v
		}
		out = append(out, RawRow{Number: rowNum, Cells: cells})
	}
	return Table{Headers: headers, Rows: out}, nil
}

// cellValue returns raw as float64 when the cell is stored as a number.
func cellValue(f *excelize.File, sheet string, col, row int, raw string) (any, error) {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return nil, fmt.Errorf("cell %s: %w", axis, err)
	}
	if typ != excelize.CellTypeUnset && typ != excelize.CellTypeNumber {
		return raw, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw, nil
	}
	return n, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
