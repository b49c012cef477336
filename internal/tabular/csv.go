package tabular

import (
	"regexp"
	"strings"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// Tokenize splits decoded CSV text into a header line and data rows.
//
// Lines that are blank after trimming are dropped before numbering, so the
// first remaining data line is row 2. Short rows are padded with "" and
// fields beyond the header count are discarded. Quoted fields may not span
// lines.
func Tokenize(text string) Table {
	var lines []string
	for _, l := range lineBreak.Split(text, -1) {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return Table{}
	}

	headers := ParseLine(lines[0])
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]RawRow, 0, len(lines)-1)
	for i, line := range lines[1:] {
		values := ParseLine(line)
		cells := make([]Cell, len(headers))
		for j, h := range headers {
			v := ""
			if j < len(values) {
				v = values[j]
			}
			cells[j] = Cell{Header: h, Value: v}
		}
		rows = append(rows, RawRow{Number: i + 2, Cells: cells})
	}
	return Table{Headers: headers, Rows: rows}
}

// ParseLine splits one line on commas. A '"' toggles quoting wherever it
// appears; inside quotes "" is a literal quote and commas are kept.
func ParseLine(line string) []string {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		switch ch := runes[i]; {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(ch)
		}
	}
	return append(fields, cur.String())
}
