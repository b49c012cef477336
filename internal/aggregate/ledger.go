package aggregate

import (
	"sort"
	"strings"

	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// LedgerFilter selects transactions for the ledger view. From and To are
// inclusive ISO dates; empty means unbounded.
type LedgerFilter struct {
	From             string
	To               string
	Keyword          string
	IncludeTransfers bool
	IncludeExcluded  bool
}

// Filter returns the matching transactions, newest first. Keyword matches
// description, memo and both category levels.
func Filter(txns []model.Transaction, f LedgerFilter) []model.Transaction {
	keyword := strings.TrimSpace(f.Keyword)
	var out []model.Transaction
	for _, tx := range txns {
		if !f.IncludeTransfers && tx.IsTransfer {
			continue
		}
		if !f.IncludeExcluded && !tx.IsIncluded {
			continue
		}
		if f.From != "" && tx.Date < f.From {
			continue
		}
		if f.To != "" && tx.Date > f.To {
			continue
		}
		if keyword != "" {
			haystack := strings.Join([]string{tx.Description, tx.Memo, tx.MajorCategory, tx.MinorCategory}, " ")
			if !strings.Contains(haystack, keyword) {
				continue
			}
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}
