package insights

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dompet/internal/core"
)

// Source supplies the transaction snapshot to analyze. *ledger.Ledger
// satisfies it.
type Source interface {
	All() []core.Transaction
}

// Engine recomputes the analysis on demand and keeps only the most recent
// snapshot so the detailed-analysis view does not trigger a recompute.
type Engine struct {
	source Source
	delay  time.Duration
	now    func() time.Time

	mu    sync.Mutex
	last  *Analysis
	cards []Card
}

// NewEngine creates an engine over the source. The delay reproduces the
// deliberate latency before results appear; zero disables it.
func NewEngine(source Source, delay time.Duration) *Engine {
	return &Engine{source: source, delay: delay, now: time.Now}
}

// Refresh waits out the configured delay (cancellable through ctx), then
// analyzes the source's current snapshot and rebuilds the cards.
func (e *Engine) Refresh(ctx context.Context) ([]Card, error) {
	if e.delay > 0 {
		timer := time.NewTimer(e.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	a := Analyze(e.source.All(), e.now())
	cards := BuildCards(a)

	e.mu.Lock()
	e.last = &a
	e.cards = cards
	e.mu.Unlock()

	slog.DebugContext(ctx, "Insights refreshed",
		"transactions", a.TotalTransactions,
		"cards", len(cards),
		"health", a.Health)
	return cards, nil
}

// Cards returns the cards from the last refresh, nil before the first.
func (e *Engine) Cards() []Card {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Card(nil), e.cards...)
}

// LastAnalysis returns the cached snapshot; false before the first refresh.
func (e *Engine) LastAnalysis() (Analysis, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return Analysis{}, false
	}
	return *e.last, true
}

// DetailedReport builds the detailed analysis from the cached snapshot;
// false before the first refresh.
func (e *Engine) DetailedReport() (Report, bool) {
	a, ok := e.LastAnalysis()
	if !ok {
		return Report{}, false
	}
	return BuildReport(a), true
}
