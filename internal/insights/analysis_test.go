package insights

import (
	"testing"
	"time"

	"dompet/internal/core"
)

func tx(id int64, typ core.TransactionType, cents int64, cat string, ts time.Time) core.Transaction {
	return core.Transaction{
		ID:          id,
		Type:        typ,
		Amount:      core.Money{Cents: cents},
		Description: "t",
		DateTime:    ts,
		Category:    cat,
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze(nil, time.Now())
	if a.TotalTransactions != 0 || a.SavingsRate != 0 {
		t.Fatalf("unexpected zero analysis: %+v", a)
	}
	if a.Health != HealthPoor {
		t.Fatalf("expected poor health, got %s", a.Health)
	}
	if a.Categories == nil || a.DailySpending == nil {
		t.Fatal("maps must be non-nil")
	}
}

func TestAnalyzeTotalsAndRate(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx(1, core.Income, 100000000, "", now.Add(-time.Hour)),   // 1,000,000 in
		tx(2, core.Expense, 20000000, "food", now.Add(-2*time.Hour)), // 200,000 out
	}

	a := Analyze(txs, now)
	if a.TotalTransactions != 2 {
		t.Fatalf("total: got %d", a.TotalTransactions)
	}
	if a.TotalIncome.Cents != 100000000 || a.TotalExpense.Cents != 20000000 {
		t.Fatalf("sums: income=%d expense=%d", a.TotalIncome.Cents, a.TotalExpense.Cents)
	}
	if a.SavingsRate != 80 {
		t.Fatalf("savings rate: got %v, want 80", a.SavingsRate)
	}
	if a.Health != HealthExcellent {
		t.Fatalf("health: got %s", a.Health)
	}
	if a.AverageTransaction.Cents != 60000000 {
		t.Fatalf("average: got %d", a.AverageTransaction.Cents)
	}
}

func TestAnalyzeWindows(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx(1, core.Expense, 1000, "a", now.Add(-24*time.Hour)),      // weekly and recent
		tx(2, core.Expense, 2000, "a", now.Add(-10*24*time.Hour)),   // recent only
		tx(3, core.Expense, 4000, "a", now.Add(-60*24*time.Hour)),   // neither
	}

	a := Analyze(txs, now)
	if a.WeeklyCount != 1 || a.RecentCount != 2 {
		t.Fatalf("windows: weekly=%d recent=%d", a.WeeklyCount, a.RecentCount)
	}
	if a.WeeklyExpense.Cents != 1000 {
		t.Fatalf("weekly expense: got %d", a.WeeklyExpense.Cents)
	}
	// 4.33 weeks per month over the weekly figure.
	if a.MonthlyExpenseEstimate.Cents != 4330 {
		t.Fatalf("monthly estimate: got %d", a.MonthlyExpenseEstimate.Cents)
	}
}

func TestAnalyzeCategoriesAndDaily(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	day := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx(1, core.Expense, 1000, "food", day),
		tx(2, core.Expense, 500, "food", day.Add(time.Hour)),
		tx(3, core.Expense, 200, "", day),
		tx(4, core.Income, 9999, "ignored", day),
	}

	a := Analyze(txs, now)
	if got := a.Categories["food"].Cents; got != 1500 {
		t.Fatalf("food: got %d", got)
	}
	// Uncategorized expenses land in the default bucket.
	if got := a.Categories[core.DefaultCategory].Cents; got != 200 {
		t.Fatalf("default category: got %d", got)
	}
	if _, ok := a.Categories["ignored"]; ok {
		t.Fatal("income must not create a category")
	}
	if got := a.DailySpending["2024-03-14"].Cents; got != 1700 {
		t.Fatalf("daily: got %d", got)
	}
}

func TestHealthThresholds(t *testing.T) {
	cases := []struct {
		rate float64
		want Health
	}{
		{-5, HealthPoor},
		{0, HealthPoor},
		{5, HealthFair},
		{10, HealthFair},
		{15, HealthGood},
		{20, HealthGood},
		{25, HealthExcellent},
	}
	for i, tc := range cases {
		if got := healthFor(tc.rate); got != tc.want {
			t.Fatalf("case %d (rate %v): got %s, want %s", i, tc.rate, got, tc.want)
		}
	}
}

func TestTopCategoryTieBreak(t *testing.T) {
	now := time.Now()
	txs := []core.Transaction{
		tx(1, core.Expense, 1000, "transport", now),
		tx(2, core.Expense, 1000, "food", now),
	}

	a := Analyze(txs, now)
	name, amount, ok := a.TopCategory()
	if !ok {
		t.Fatal("expected a top category")
	}
	if name != "food" || amount.Cents != 1000 {
		t.Fatalf("tie should break to the smaller name: got %s (%d)", name, amount.Cents)
	}

	empty := Analyze(nil, now)
	if _, _, ok := empty.TopCategory(); ok {
		t.Fatal("empty analysis must have no top category")
	}
}
