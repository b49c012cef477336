package header

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// ErrUnknownField is returned when an override targets a field the record
// kind does not have.
var ErrUnknownField = errors.New("unknown field")

// Overrides maps a normalized header to a canonical field for one import
// session. It takes precedence over the alias table.
type Overrides map[string]model.Field

// With returns a copy of o with raw header h mapped to f.
func (o Overrides) With(h string, f model.Field) Overrides {
	out := make(Overrides, len(o)+1)
	for k, v := range o {
		out[k] = v
	}
	out[Normalize(h)] = f
	return out
}

// ParseOverride parses "raw header=field". The split is on the last '='
// so headers containing '=' still work.
func ParseOverride(spec string, table *Table) (string, model.Field, error) {
	i := strings.LastIndex(spec, "=")
	if i <= 0 || i == len(spec)-1 {
		return "", "", fmt.Errorf("override %q: want \"header=field\"", spec)
	}
	h := Normalize(spec[:i])
	f := model.Field(strings.TrimSpace(spec[i+1:]))
	if h == "" {
		return "", "", fmt.Errorf("override %q: empty header", spec)
	}
	if !table.Has(f) {
		return "", "", fmt.Errorf("override %q: %w %q for %s", spec, ErrUnknownField, f, table.Kind)
	}
	return h, f, nil
}

// ParseOverrides parses every spec into one Overrides set.
func ParseOverrides(specs []string, table *Table) (Overrides, error) {
	o := make(Overrides, len(specs))
	for _, s := range specs {
		h, f, err := ParseOverride(s, table)
		if err != nil {
			return nil, err
		}
		o[h] = f
	}
	return o, nil
}
