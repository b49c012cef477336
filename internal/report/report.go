// Package report renders derived views as terminal tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/kakeibo-dev/kakeibo/internal/importlog"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// Currency is the display currency of every amount.
const Currency = "JPY"

// Unknown is shown for a null asset column.
const Unknown = "n/a"

// Yen formats d as whole yen, e.g. ¥1,200,000.
func Yen(d decimal.Decimal) string {
	return money.New(d.Round(0).IntPart(), Currency).Display()
}

// NullYen formats a nullable amount, keeping unknown distinct from zero.
func NullYen(d decimal.NullDecimal) string {
	if !d.Valid {
		return Unknown
	}
	return Yen(d.Decimal)
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetHeader(headers)
	return t
}

// Monthly renders monthly buckets in the order given.
func Monthly(w io.Writer, buckets []model.MonthlyBucket) {
	if len(buckets) == 0 {
		fmt.Fprintln(w, "No transactions.")
		return
	}
	t := newTable(w, "Month", "Income", "Expense", "Net", "Transfer")
	t.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	for _, b := range buckets {
		t.Append([]string{b.Month, Yen(b.Income), Yen(b.Expense), Yen(b.Net), Yen(b.Transfer)})
	}
	t.Render()
}

// Dashboard is the one-screen overview.
type Dashboard struct {
	Summary model.MonthlyBucket
	Top     []model.CategoryTotal
	Latest  *model.Asset
	Alerts  []string
}

// RenderDashboard writes the current month, top categories, latest asset
// snapshot and alerts.
func RenderDashboard(w io.Writer, d Dashboard) {
	fmt.Fprintf(w, "This month (%s)\n", d.Summary.Month)
	s := newTable(w, "Income", "Expense", "Net", "Transfer")
	s.Append([]string{Yen(d.Summary.Income), Yen(d.Summary.Expense), Yen(d.Summary.Net), Yen(d.Summary.Transfer)})
	s.Render()

	fmt.Fprintln(w, "\nTop categories")
	if len(d.Top) == 0 {
		fmt.Fprintln(w, "No expenses this month.")
	} else {
		t := newTable(w, "#", "Category", "Amount")
		for i, c := range d.Top {
			t.Append([]string{fmt.Sprint(i + 1), c.Category, Yen(c.Amount)})
		}
		t.Render()
	}

	fmt.Fprintln(w, "\nAssets")
	if d.Latest == nil {
		fmt.Fprintln(w, "No asset snapshots.")
	} else {
		Assets(w, []model.Asset{*d.Latest})
	}

	fmt.Fprintln(w, "\nAlerts")
	for _, a := range d.Alerts {
		fmt.Fprintf(w, "- %s\n", a)
	}
}

// Assets renders asset snapshots in the order given.
func Assets(w io.Writer, assets []model.Asset) {
	t := newTable(w, "Date", "Total", "Cash", "Stocks", "Funds", "Points")
	for _, a := range assets {
		t.Append([]string{a.Date, NullYen(a.Total), NullYen(a.Cash), NullYen(a.Stocks), NullYen(a.Funds), NullYen(a.Points)})
	}
	t.Render()
}

// Ledger renders transactions in the order given.
func Ledger(w io.Writer, txns []model.Transaction) {
	if len(txns) == 0 {
		fmt.Fprintln(w, "No matching transactions.")
		return
	}
	t := newTable(w, "Date", "Description", "Amount", "Category", "Institution", "Flags")
	for _, tx := range txns {
		category := tx.MajorCategory
		if tx.MinorCategory != "" {
			category += " / " + tx.MinorCategory
		}
		t.Append([]string{tx.Date, tx.Description, Yen(tx.Amount), category, tx.Institution, flags(tx)})
	}
	t.Render()
	fmt.Fprintf(w, "%d transactions\n", len(txns))
}

func flags(tx model.Transaction) string {
	switch {
	case tx.IsTransfer && !tx.IsIncluded:
		return "transfer,excluded"
	case tx.IsTransfer:
		return "transfer"
	case !tx.IsIncluded:
		return "excluded"
	}
	return ""
}

// History renders import log entries in the order given.
func History(w io.Writer, entries []importlog.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No imports yet.")
		return
	}
	t := newTable(w, "When", "Kind", "Source", "Encoding", "Imported", "Skipped", "Dropped", "Errors", "Range")
	for _, e := range entries {
		rng := ""
		if e.FirstDate != "" {
			rng = e.FirstDate + " .. " + e.LastDate
		}
		t.Append([]string{
			e.Timestamp.Local().Format("2006-01-02 15:04"), e.Kind, e.Source, e.Encoding,
			fmt.Sprint(e.Imported), fmt.Sprint(e.Skipped), fmt.Sprint(e.Dropped), fmt.Sprint(e.RowErrors), rng,
		})
	}
	t.Render()
}

// RowErrors lists row-scoped validation failures.
func RowErrors(w io.Writer, errs []model.RowError) {
	for _, e := range errs {
		fmt.Fprintf(w, "  row %d: %s\n", e.RowNumber, strings.Join(e.Messages, "; "))
	}
}
