// Package normalize coerces mapped cell values into typed Transaction and
// Asset records.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Layouts tried after '/' has been rewritten to '-'.
var dateLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04",
	"2006-1-2 15:04:05",
	"2006-1-2T15:04",
	"2006-1-2T15:04:05",
	"2006-1-2T15:04:05Z07:00",
	"2006-1-2 15:04:05Z07:00",
}

// Spreadsheet serial day numbers count from 1899-12-31 (serial 1 is
// 1900-01-01) and include the fictitious 1900-02-29 at serial 60.
var (
	serialEpoch = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	maxSerial   = 2958465.0 // 9999-12-31
)

// Date coerces a cell to YYYY-MM-DD. It accepts time.Time, a spreadsheet
// serial (float64 or int) or a string; anything unparsable yields "".
func Date(v any) string {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(dateLayout)
	case float64:
		return fromSerial(x)
	case int:
		return fromSerial(float64(x))
	case string:
		return parseDate(x)
	default:
		return ""
	}
}

func fromSerial(n float64) string {
	if math.IsNaN(n) || n < 1 || n > maxSerial {
		return ""
	}
	days := int(math.Floor(n))
	if days > 60 {
		days--
	}
	return serialEpoch.AddDate(0, 0, days).Format(dateLayout)
}

func parseDate(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "/", "-")
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout)
		}
	}
	return ""
}

// Amount coerces a cell to a number. Strings lose separators, whitespace and
// currency glyphs before parsing. Blank or unparsable input yields zero.
func Amount(v any) decimal.Decimal {
	n := Number(v)
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}

// Number is Amount for nullable columns: absent, blank or unparsable input
// yields an invalid NullDecimal instead of zero.
func Number(v any) decimal.NullDecimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return decimal.NewNullDecimal(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(x))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(x)))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(x))
	case string:
		d, ok := parseNumber(x)
		if !ok {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	default:
		return decimal.NullDecimal{}
	}
}

func parseNumber(s string) (decimal.Decimal, bool) {
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return -1
		case r == ',' || r == '，':
			return -1
		case r == '¥' || r == '￥' || r == '円' || r == '$' || r == '€' || r == '£':
			return -1
		}
		return r
	}, s)
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Text renders a cell as a string. Numbers use the shortest exact form.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		return Date(x)
	default:
		return fmt.Sprint(x)
	}
}

// Flag reads a 0/1 column. An absent cell yields def; anything else, blank
// included, sets the flag only when the value equals 1.
func Flag(v any, def bool) bool {
	switch x := v.(type) {
	case nil:
		return def
	case bool:
		return x
	}
	n := Number(v)
	return n.Valid && n.Decimal.Equal(decimal.NewFromInt(1))
}

// present reports whether a mapped cell carries anything: a non-empty
// string, a non-zero number or a non-zero time.
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case time.Time:
		return !x.IsZero()
	default:
		return true
	}
}
