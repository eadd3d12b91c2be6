// Package insights derives aggregate statistics and ranked, human-readable
// insight cards from a snapshot of the ledger's transactions.
package insights

import (
	"time"

	"dompet/internal/core"
)

type Health string

const (
	HealthPoor      Health = "poor"
	HealthFair      Health = "fair"
	HealthGood      Health = "good"
	HealthExcellent Health = "excellent"
)

// averageWeeksPerMonth scales a week of spending up to a month estimate.
const averageWeeksPerMonth = 4.33

// Analysis is an immutable aggregate computed from a transaction set at
// one point in time. It is recomputed per refresh and never persisted.
type Analysis struct {
	TotalTransactions      int
	TotalIncome            core.Money
	TotalExpense           core.Money
	AverageTransaction     core.Money
	RecentCount            int // transactions in the trailing 30 days
	WeeklyCount            int // transactions in the trailing 7 days
	WeeklyExpense          core.Money
	MonthlyExpenseEstimate core.Money
	Categories             map[string]core.Money // expense sums per category
	DailySpending          map[string]core.Money // expense sums per calendar day
	SavingsRate            float64
	Health                 Health
}

// Analyze computes an Analysis over the given transactions. It is pure:
// the same input and clock always yield the same snapshot.
func Analyze(txs []core.Transaction, now time.Time) Analysis {
	if len(txs) == 0 {
		return Analysis{
			Categories:    map[string]core.Money{},
			DailySpending: map[string]core.Money{},
			Health:        HealthPoor,
		}
	}

	monthAgo := now.Add(-30 * 24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	a := Analysis{
		TotalTransactions: len(txs),
		Categories:        map[string]core.Money{},
		DailySpending:     map[string]core.Money{},
	}
	for _, t := range txs {
		if !t.DateTime.Before(monthAgo) {
			a.RecentCount++
		}
		weekly := !t.DateTime.Before(weekAgo)
		if weekly {
			a.WeeklyCount++
		}

		if t.Type == core.Income {
			a.TotalIncome = a.TotalIncome.Add(t.Amount)
			continue
		}
		a.TotalExpense = a.TotalExpense.Add(t.Amount)
		cat := t.CategoryOrDefault()
		a.Categories[cat] = a.Categories[cat].Add(t.Amount)
		day := t.DateTime.Format("2006-01-02")
		a.DailySpending[day] = a.DailySpending[day].Add(t.Amount)
		if weekly {
			a.WeeklyExpense = a.WeeklyExpense.Add(t.Amount)
		}
	}

	if a.TotalIncome.Cents > 0 {
		a.SavingsRate = float64(a.TotalIncome.Cents-a.TotalExpense.Cents) /
			float64(a.TotalIncome.Cents) * 100
	}
	a.AverageTransaction = core.Money{
		Cents: (a.TotalIncome.Cents + a.TotalExpense.Cents) / int64(len(txs)),
	}
	a.Health = healthFor(a.SavingsRate)
	a.MonthlyExpenseEstimate = a.WeeklyExpense.MulFloat(averageWeeksPerMonth)
	return a
}

func healthFor(savingsRate float64) Health {
	switch {
	case savingsRate > 20:
		return HealthExcellent
	case savingsRate > 10:
		return HealthGood
	case savingsRate > 0:
		return HealthFair
	default:
		return HealthPoor
	}
}

// TopCategory returns the category with the largest expense sum. Ties
// break to the lexicographically smaller name so the result is stable
// across runs.
func (a Analysis) TopCategory() (string, core.Money, bool) {
	var (
		name  string
		top   core.Money
		found bool
	)
	for cat, amount := range a.Categories {
		switch {
		case !found,
			amount.Cents > top.Cents,
			amount.Cents == top.Cents && cat < name:
			name, top, found = cat, amount, true
		}
	}
	return name, top, found
}
