// Package importlog keeps an append-only CSV history of committed import
// sessions.
package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one committed import session.
type Entry struct {
	Timestamp time.Time
	SessionID string
	Kind      string
	Source    string
	Encoding  string
	Imported  int
	Skipped   int
	Dropped   int
	RowErrors int
	FirstDate string
	LastDate  string
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,session_id,kind,source,encoding,imported,skipped,dropped,row_errors,first_date,last_date"

// File is the log location relative to the project dir.
const File = "logs/import-log.csv"

const (
	numFields    = 11
	colTimestamp = 0
	colSession   = 1
	colKind      = 2
	colSource    = 3
	colEncoding  = 4
	colImported  = 5
	colSkipped   = 6
	colDropped   = 7
	colRowErrors = 8
	colFirstDate = 9
	colLastDate  = 10
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colSession] = e.SessionID
	row[colKind] = e.Kind
	row[colSource] = e.Source
	row[colEncoding] = e.Encoding
	row[colImported] = strconv.Itoa(e.Imported)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	row[colDropped] = strconv.Itoa(e.Dropped)
	row[colRowErrors] = strconv.Itoa(e.RowErrors)
	row[colFirstDate] = e.FirstDate
	row[colLastDate] = e.LastDate
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	e := Entry{
		Timestamp: ts,
		SessionID: record[colSession],
		Kind:      record[colKind],
		Source:    record[colSource],
		Encoding:  record[colEncoding],
		FirstDate: record[colFirstDate],
		LastDate:  record[colLastDate],
	}
	for _, c := range []struct {
		col  int
		name string
		dst  *int
	}{
		{colImported, "imported", &e.Imported},
		{colSkipped, "skipped", &e.Skipped},
		{colDropped, "dropped", &e.Dropped},
		{colRowErrors, "row_errors", &e.RowErrors},
	} {
		n, err := strconv.Atoi(record[c.col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing %s %q: %w", c.name, record[c.col], err)
		}
		*c.dst = n
	}
	return e, nil
}

// Append writes entries to <dir>/logs/import-log.csv, creating the file and
// header if needed.
func Append(dir string, entries []Entry) error {
	path := filepath.Join(dir, File)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dir>/logs/import-log.csv, or nil if the
// file does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, File))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
