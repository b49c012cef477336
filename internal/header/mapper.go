package header

import (
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/tabular"
)

// Resolve returns the canonical field for a raw header: the override for its
// normalized form if any, otherwise the alias table entry.
func Resolve(raw string, table *Table, overrides Overrides) (model.Field, bool) {
	n := Normalize(raw)
	if f, ok := overrides[n]; ok {
		return f, true
	}
	return table.Lookup(n)
}

// Map keys a raw row by canonical field. Cells with unknown headers are
// dropped; when two cells resolve to the same field the later one wins.
func Map(row tabular.RawRow, table *Table, overrides Overrides) map[model.Field]any {
	out := make(map[model.Field]any, len(row.Cells))
	for _, c := range row.Cells {
		if f, ok := Resolve(c.Header, table, overrides); ok {
			out[f] = c.Value
		}
	}
	return out
}

// MissingRequired returns the required fields that none of headers reaches,
// in the order given.
func MissingRequired(headers []string, table *Table, overrides Overrides, required []model.Field) []model.Field {
	reachable := make(map[model.Field]bool, len(headers))
	for _, h := range headers {
		if f, ok := Resolve(h, table, overrides); ok {
			reachable[f] = true
		}
	}
	var missing []model.Field
	for _, f := range required {
		if !reachable[f] {
			missing = append(missing, f)
		}
	}
	return missing
}

// DecodeHints lists the normalized primary header of every required field
// that no override already targets.
func DecodeHints(table *Table, overrides Overrides) []string {
	targeted := make(map[model.Field]bool, len(overrides))
	for _, f := range overrides {
		targeted[f] = true
	}
	var hints []string
	for _, f := range table.Required() {
		if targeted[f] {
			continue
		}
		if h := table.PrimaryAlias(f); h != "" {
			hints = append(hints, h)
		}
	}
	return hints
}
