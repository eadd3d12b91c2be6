package insights

import (
	"context"
	"testing"
	"time"

	"dompet/internal/core"
)

type sliceSource []core.Transaction

func (s sliceSource) All() []core.Transaction { return s }

func TestEngineBeforeFirstRefresh(t *testing.T) {
	e := NewEngine(sliceSource{}, 0)
	if cards := e.Cards(); len(cards) != 0 {
		t.Fatalf("expected no cards, got %d", len(cards))
	}
	if _, ok := e.LastAnalysis(); ok {
		t.Fatal("expected no analysis before refresh")
	}
	if _, ok := e.DetailedReport(); ok {
		t.Fatal("expected no report before refresh")
	}
}

func TestEngineRefresh(t *testing.T) {
	now := time.Now()
	src := sliceSource{
		tx(1, core.Income, 100000, "", now),
		tx(2, core.Expense, 30000, "food", now),
	}
	e := NewEngine(src, 0)

	cards, err := e.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(cards) == 0 {
		t.Fatal("expected cards after refresh")
	}

	a, ok := e.LastAnalysis()
	if !ok || a.TotalTransactions != 2 {
		t.Fatalf("unexpected analysis: ok=%v %+v", ok, a)
	}

	report, ok := e.DetailedReport()
	if !ok {
		t.Fatal("expected report after refresh")
	}
	if report.Overview.NetBalance.Cents != 70000 {
		t.Fatalf("net balance: got %d", report.Overview.NetBalance.Cents)
	}
}

func TestEngineRefreshCancellable(t *testing.T) {
	e := NewEngine(sliceSource{}, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Refresh(ctx); err == nil {
		t.Fatal("expected context error for cancelled refresh")
	}
	if _, ok := e.LastAnalysis(); ok {
		t.Fatal("cancelled refresh must not cache an analysis")
	}
}

func TestBuildReportTopCategories(t *testing.T) {
	now := time.Now()
	txs := []core.Transaction{
		tx(1, core.Income, 100000, "", now),
		tx(2, core.Expense, 5000, "rent", now),
		tx(3, core.Expense, 2000, "food", now),
		tx(4, core.Expense, 2000, "transport", now),
		tx(5, core.Expense, 1000, "fun", now),
	}

	r := BuildReport(Analyze(txs, now))
	if len(r.TopCategories) != 3 {
		t.Fatalf("expected top 3 categories, got %d", len(r.TopCategories))
	}
	if r.TopCategories[0].Name != "rent" || r.TopCategories[0].Percent != 50 {
		t.Fatalf("unexpected leader: %+v", r.TopCategories[0])
	}
	// Equal amounts order by name.
	if r.TopCategories[1].Name != "food" || r.TopCategories[2].Name != "transport" {
		t.Fatalf("unexpected tie order: %+v", r.TopCategories)
	}
}

func TestRecommendations(t *testing.T) {
	now := time.Now()

	overspent := Analyze([]core.Transaction{
		tx(1, core.Income, 10000, "", now),
		tx(2, core.Expense, 15000, "food", now),
	}, now)
	recs := recommendations(overspent)
	// A negative rate is also below 10, so both warnings fire, plus the
	// single dominating category.
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %v", recs)
	}
	if recs[0] != "Urgent: reduce expenses immediately" {
		t.Fatalf("unexpected first recommendation %q", recs[0])
	}
	if recs[2] != "Reduce food expenses" {
		t.Fatalf("unexpected category recommendation %q", recs[2])
	}

	balancedTxs := []core.Transaction{
		tx(1, core.Income, 100000, "", now),
		tx(2, core.Expense, 10000, "food", now),
		tx(3, core.Expense, 10000, "rent", now),
		tx(4, core.Expense, 10000, "transport", now),
	}
	recs = recommendations(Analyze(balancedTxs, now))
	if len(recs) != 1 || recs[0] != "Great job! Keep maintaining your financial discipline" {
		t.Fatalf("expected fallback recommendation, got %v", recs)
	}
}
