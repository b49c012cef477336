package importer

import (
	"fmt"
	"io"

	"github.com/kakeibo-dev/kakeibo/internal/charset"
	"github.com/kakeibo-dev/kakeibo/internal/tabular"
)

// EncodingWorkbook is reported for workbook sources, which carry no text
// encoding of their own.
const EncodingWorkbook = "xlsx"

// CSVReader decodes CSV bytes (UTF-8 or Shift-JIS) and tokenizes them.
type CSVReader struct{}

// Extension returns ".csv".
func (CSVReader) Extension() string { return ".csv" }

// Read decodes and tokenizes the whole input.
func (CSVReader) Read(r io.Reader, opts ReadOptions) (Source, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return Source{}, fmt.Errorf("reading csv: %w", err)
	}
	dec := charset.Decode(buf, opts.Hints)
	return Source{Table: tabular.Tokenize(dec.Text), Encoding: dec.Encoding}, nil
}

// SheetReader reads one sheet of an .xlsx workbook.
type SheetReader struct{}

// Extension returns ".xlsx".
func (SheetReader) Extension() string { return ".xlsx" }

// Read loads opts.Sheet, or the first sheet when it is absent.
func (SheetReader) Read(r io.Reader, opts ReadOptions) (Source, error) {
	t, err := tabular.ReadSheet(r, opts.Sheet)
	if err != nil {
		return Source{}, err
	}
	return Source{Table: t, Encoding: EncodingWorkbook}, nil
}
