// Package analytics derives aggregates from the ledger. Everything here is a
// pure function of the transaction list; nothing is stored.
package analytics

import (
	"sort"
	"time"

	"github.com/moneymind/backend/internal/model"
)

// Totals is the income/expense summary for one calendar month.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// CategoryTotal is one slice of the expense breakdown.
type CategoryTotal struct {
	Category model.Category `json:"category"`
	Total    float64        `json:"total"`
}

// MonthTotals is one point of the history series.
type MonthTotals struct {
	Label   string  `json:"label"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// FilterMonth returns the transactions dated within the given calendar month.
func FilterMonth(txns []model.Transaction, year int, month time.Month) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.Date.SameMonth(year, month) {
			out = append(out, t)
		}
	}
	return out
}

// MonthlyTotals sums income and expense over the given calendar month.
// An empty ledger yields all-zero totals.
func MonthlyTotals(txns []model.Transaction, year int, month time.Month) Totals {
	var totals Totals
	for _, t := range txns {
		if !t.Date.SameMonth(year, month) {
			continue
		}
		switch t.Type {
		case model.TypeIncome:
			totals.Income += t.Amount
		case model.TypeExpense:
			totals.Expense += t.Amount
		}
	}
	totals.Balance = totals.Income - totals.Expense
	return totals
}

// CategoryBreakdown sums expense-type transactions per category, ordered by
// descending total. Ties break on category name so the order is stable.
func CategoryBreakdown(txns []model.Transaction) []CategoryTotal {
	byCategory := make(map[model.Category]float64)
	for _, t := range txns {
		if t.Type != model.TypeExpense {
			continue
		}
		byCategory[t.Category] += t.Amount
	}

	out := make([]CategoryTotal, 0, len(byCategory))
	for c, total := range byCategory {
		out = append(out, CategoryTotal{Category: c, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MonthlySeries buckets the full history into per-month income/expense
// totals, most recent month first. Labels follow the "Jan 06" form the UI
// charts with.
func MonthlySeries(txns []model.Transaction) []MonthTotals {
	type key struct {
		year  int
		month time.Month
	}
	byMonth := make(map[key]*MonthTotals)
	keys := make([]key, 0)

	for _, t := range txns {
		k := key{t.Date.Year(), t.Date.Month()}
		bucket, ok := byMonth[k]
		if !ok {
			bucket = &MonthTotals{Label: t.Date.Format("Jan 06")}
			byMonth[k] = bucket
			keys = append(keys, k)
		}
		switch t.Type {
		case model.TypeIncome:
			bucket.Income += t.Amount
		case model.TypeExpense:
			bucket.Expense += t.Amount
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year > keys[j].year
		}
		return keys[i].month > keys[j].month
	})

	out := make([]MonthTotals, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byMonth[k])
	}
	return out
}
