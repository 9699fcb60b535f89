// Package summary derives the dashboard statistics from a transaction
// collection. Every function is pure and operates on whatever slice it is
// given, so callers decide which period or filter applies.
package summary

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

// Stats holds the per-type totals and the resulting balance.
type Stats struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Tax     decimal.Decimal
	Balance decimal.Decimal
}

type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// FlowBar is one bar of the income/expense/tax chart.
type FlowBar struct {
	Type   transaction.Type
	Label  string
	Amount decimal.Decimal
	Color  string
}

// Slice is one wedge of the expense-by-category chart.
type Slice struct {
	Name    string
	Amount  decimal.Decimal
	Percent decimal.Decimal
	Color   string
}

// Report bundles everything the dashboard renders.
type Report struct {
	Stats     Stats
	Flow      []FlowBar
	Breakdown []CategoryAmount
	Slices    []Slice
}

// CategoryPalette is cycled by slice index.
var CategoryPalette = []string{"#bfdbfe", "#bbf7d0", "#fecaca", "#fde68a", "#ddd6fe", "#fed7aa", "#e2e8f0"}

// Summarize totals txs by type in a single pass. Records with an unknown type
// carry no sign and are skipped.
func Summarize(txs []*transaction.Transaction) Stats {
	var s Stats

	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeIncome:
			s.Income = s.Income.Add(tx.Amount)
		case transaction.TypeExpense:
			s.Expense = s.Expense.Add(tx.Amount)
		case transaction.TypeTax:
			s.Tax = s.Tax.Add(tx.Amount)
		}
	}

	s.Balance = s.Income.Sub(s.Expense).Sub(s.Tax)

	return s
}

// CategoryBreakdown sums outgoing money (expenses and taxes) per category,
// ordered by the first occurrence of each category.
func CategoryBreakdown(txs []*transaction.Transaction) []CategoryAmount {
	index := make(map[string]int)

	var out []CategoryAmount

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense && tx.Type != transaction.TypeTax {
			continue
		}

		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, CategoryAmount{Name: tx.Category})
		}

		out[i].Amount = out[i].Amount.Add(tx.Amount)
	}

	return out
}

func Flow(s Stats) []FlowBar {
	amounts := map[transaction.Type]decimal.Decimal{
		transaction.TypeIncome:  s.Income,
		transaction.TypeExpense: s.Expense,
		transaction.TypeTax:     s.Tax,
	}

	bars := make([]FlowBar, 0, len(transaction.Types))

	for _, t := range transaction.Types {
		bars = append(bars, FlowBar{
			Type:   t,
			Label:  t.PluralLabel(),
			Amount: amounts[t],
			Color:  t.Color(),
		})
	}

	return bars
}

// Slices turns a breakdown into chart wedges. Percentages are rounded to two
// decimals and are all zero when the total is zero.
func Slices(breakdown []CategoryAmount) []Slice {
	total := decimal.Zero
	for _, c := range breakdown {
		total = total.Add(c.Amount)
	}

	hundred := decimal.NewFromInt(100)
	out := make([]Slice, len(breakdown))

	for i, c := range breakdown {
		pct := decimal.Zero
		if !total.IsZero() {
			pct = c.Amount.Mul(hundred).Div(total).Round(2)
		}

		out[i] = Slice{
			Name:    c.Name,
			Amount:  c.Amount,
			Percent: pct,
			Color:   CategoryPalette[i%len(CategoryPalette)],
		}
	}

	return out
}

func Dashboard(txs []*transaction.Transaction) Report {
	stats := Summarize(txs)
	breakdown := CategoryBreakdown(txs)

	return Report{
		Stats:     stats,
		Flow:      Flow(stats),
		Breakdown: breakdown,
		Slices:    Slices(breakdown),
	}
}
