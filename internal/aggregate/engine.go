// Package aggregate derives monthly rollups, current-month views, spending
// alerts and asset snapshots from full record snapshots. Nothing here
// mutates its input or caches results.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// NoAlerts is the sole entry of the alert list when no rule fires.
const NoAlerts = "No significant alerts right now."

// Options tunes the engine. Zero fields take the defaults.
type Options struct {
	TopLimit           int
	AlertThreshold     decimal.NullDecimal // 0.30 = alert above mean * 1.30; zero alerts on any rise
	UncategorizedLabel string
	Now                func() time.Time
}

// Engine computes derived views.
type Engine struct {
	opts Options
}

// New returns an Engine with opts, filling unset fields with defaults.
func New(opts Options) *Engine {
	if opts.TopLimit <= 0 {
		opts.TopLimit = 5
	}
	if !opts.AlertThreshold.Valid {
		opts.AlertThreshold = decimal.NewNullDecimal(decimal.NewFromFloat(0.3))
	}
	if opts.UncategorizedLabel == "" {
		opts.UncategorizedLabel = "uncategorized"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{opts: opts}
}

// Default returns an Engine with the default options and the wall clock.
func Default() *Engine {
	return New(Options{})
}

// CurrentMonth returns the YYYY-MM of the engine clock at call time.
func (e *Engine) CurrentMonth() string {
	return e.opts.Now().Format("2006-01")
}

// SummarizeMonthly buckets transactions by month, newest first. Transfers
// count only toward Transfer; IsIncluded is not consulted.
func (e *Engine) SummarizeMonthly(txns []model.Transaction) []model.MonthlyBucket {
	return summarizeMonthly(txns)
}

func summarizeMonthly(txns []model.Transaction) []model.MonthlyBucket {
	byMonth := make(map[string]*model.MonthlyBucket)
	for _, tx := range txns {
		month := tx.Month()
		if month == "" {
			continue
		}
		b, ok := byMonth[month]
		if !ok {
			b = &model.MonthlyBucket{Month: month}
			byMonth[month] = b
		}
		switch {
		case tx.IsTransfer:
			b.Transfer = b.Transfer.Add(tx.Amount.Abs())
		case tx.Amount.Sign() >= 0:
			b.Income = b.Income.Add(tx.Amount)
		default:
			b.Expense = b.Expense.Add(tx.Amount.Abs())
		}
	}

	out := make([]model.MonthlyBucket, 0, len(byMonth))
	for _, b := range byMonth {
		b.Net = b.Income.Sub(b.Expense)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out
}

// CurrentMonthSummary totals the current calendar month. Transfers and
// excluded records stay out of income/expense; transfers are still summed
// into Transfer even when excluded.
func (e *Engine) CurrentMonthSummary(txns []model.Transaction) model.MonthlyBucket {
	return monthSummary(txns, e.CurrentMonth())
}

func monthSummary(txns []model.Transaction, month string) model.MonthlyBucket {
	s := model.MonthlyBucket{Month: month}
	for _, tx := range txns {
		if tx.Month() != month {
			continue
		}
		if tx.IsTransfer || !tx.IsIncluded {
			if tx.IsTransfer {
				s.Transfer = s.Transfer.Add(tx.Amount.Abs())
			}
			continue
		}
		if tx.Amount.Sign() >= 0 {
			s.Income = s.Income.Add(tx.Amount)
		} else {
			s.Expense = s.Expense.Add(tx.Amount.Abs())
		}
	}
	s.Net = s.Income.Sub(s.Expense)
	return s
}

// TopCategories returns the current month's largest expense categories.
// limit <= 0 uses the configured limit. Ties keep first-seen order.
func (e *Engine) TopCategories(txns []model.Transaction, limit int) []model.CategoryTotal {
	if limit <= 0 {
		limit = e.opts.TopLimit
	}
	return topCategories(txns, e.CurrentMonth(), limit, e.opts.UncategorizedLabel)
}

func topCategories(txns []model.Transaction, month string, limit int, uncategorized string) []model.CategoryTotal {
	var out []model.CategoryTotal
	index := make(map[string]int)
	for _, tx := range txns {
		if tx.IsTransfer || !tx.IsIncluded || tx.Month() != month || tx.Amount.Sign() >= 0 {
			continue
		}
		key := tx.MajorCategory
		if key == "" {
			key = uncategorized
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, model.CategoryTotal{Category: key})
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount.Abs())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.GreaterThan(out[j].Amount) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DetectAlerts compares the newest month's expense (non-transfer, included
// records only) against the mean of all older months and returns exactly
// one message: an overage alert or NoAlerts.
func (e *Engine) DetectAlerts(txns []model.Transaction) []string {
	var eligible []model.Transaction
	for _, tx := range txns {
		if !tx.IsTransfer && tx.IsIncluded {
			eligible = append(eligible, tx)
		}
	}

	months := summarizeMonthly(eligible)
	if len(months) >= 2 {
		current, older := months[0], months[1:]
		sum := decimal.Zero
		for _, m := range older {
			sum = sum.Add(m.Expense)
		}
		mean := sum.Div(decimal.NewFromInt(int64(len(older))))
		limit := mean.Mul(decimal.NewFromInt(1).Add(e.opts.AlertThreshold.Decimal))
		if mean.Sign() > 0 && current.Expense.GreaterThan(limit) {
			pct := current.Expense.Div(mean).Mul(decimal.NewFromInt(100)).Round(0).Sub(decimal.NewFromInt(100))
			return []string{fmt.Sprintf("Spending in %s is %s%% above the average of earlier months.", current.Month, pct.String())}
		}
	}
	return []string{NoAlerts}
}

// LatestAssetSnapshot returns the asset with the greatest date, or nil.
func LatestAssetSnapshot(assets []model.Asset) *model.Asset {
	if len(assets) == 0 {
		return nil
	}
	latest := assets[0]
	for _, a := range assets[1:] {
		if a.Date > latest.Date {
			latest = a
		}
	}
	return &latest
}
