// Package charset turns raw CSV bytes into text, falling back from UTF-8 to
// Shift-JIS when the UTF-8 reading does not look like the expected table.
package charset

import (
	"slices"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/kakeibo-dev/kakeibo/internal/header"
	"github.com/kakeibo-dev/kakeibo/internal/tabular"
)

// Encoding names reported by Decode.
const (
	UTF8     = "utf-8"
	ShiftJIS = "shift-jis"
)

// Result is decoded text plus the encoding that produced it. Encoding is for
// diagnostics only.
type Result struct {
	Text     string
	Encoding string
}

// Decode reads buf as UTF-8 (BOM stripped, invalid sequences replaced with
// U+FFFD) and re-reads it as Shift-JIS when NeedsFallback says the UTF-8
// reading is wrong. Decoding never fails: if Shift-JIS decoding errors the
// UTF-8 text is kept. A well-formed UTF-8 reading is also kept when the
// Shift-JIS reading fails the same checks, so a UTF-8 file that merely
// lacks a required column is not garbled.
func Decode(buf []byte, required []string) Result {
	text := decodeUTF8(buf)
	if !NeedsFallback(text, required) {
		return Result{Text: text, Encoding: UTF8}
	}

	sjis, err := japanese.ShiftJIS.NewDecoder().Bytes(buf)
	if err != nil {
		return Result{Text: text, Encoding: UTF8}
	}
	if !strings.ContainsRune(text, '\uFFFD') && NeedsFallback(string(sjis), required) {
		return Result{Text: text, Encoding: UTF8}
	}
	return Result{Text: string(sjis), Encoding: ShiftJIS}
}

// NeedsFallback reports whether a UTF-8 candidate text should be discarded:
// it contains replacement characters, its header line has at most one
// column, or a required (normalized) header is absent.
func NeedsFallback(text string, required []string) bool {
	if strings.ContainsRune(text, '\uFFFD') {
		return true
	}
	headers := tabular.Tokenize(text).Headers
	if len(headers) <= 1 {
		return true
	}
	if len(required) == 0 {
		return false
	}
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = header.Normalize(h)
	}
	for _, r := range required {
		if !slices.Contains(normalized, r) {
			return true
		}
	}
	return false
}

func decodeUTF8(buf []byte) string {
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(buf)
	if err != nil {
		return strings.ToValidUTF8(string(buf), "\uFFFD")
	}
	return string(out)
}
