package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"dompet/internal/amqp"
	"dompet/internal/core"
	"dompet/internal/ledger"
)

// Tracker orchestrates ledger mutations: it mints transaction ids from
// the wall clock, drives CSV import/export and relays ledger change
// notifications onto the event bus when one is configured.
type Tracker struct {
	ledger *ledger.Ledger
	events *amqp.Client
	now    func() time.Time
	lastID atomic.Int64
}

func NewTracker(l *ledger.Ledger, events *amqp.Client) *Tracker {
	t := &Tracker{
		ledger: l,
		events: events,
		now:    time.Now,
	}
	l.Subscribe(t.publishChange)
	return t
}

// Ledger exposes the underlying ledger for read-side queries.
func (t *Tracker) Ledger() *ledger.Ledger { return t.ledger }

// nextID mints a millisecond-clock id, bumped past the previous one so
// two transactions created in the same millisecond never collide.
func (t *Tracker) nextID() int64 {
	for {
		prev := t.lastID.Load()
		id := t.now().UnixMilli()
		if id <= prev {
			id = prev + 1
		}
		if t.lastID.CompareAndSwap(prev, id) {
			return id
		}
	}
}

// NewTransaction builds a validated transaction from raw presentation
// input, minting the id from the clock.
func (t *Tracker) NewTransaction(typeStr, amountStr, description, datetimeStr, category string) (core.Transaction, error) {
	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		return core.Transaction{}, err
	}
	ts, err := core.ParseDateTime(datetimeStr)
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		ID:          t.nextID(),
		Type:        core.TransactionType(typeStr),
		Amount:      amount,
		Description: description,
		DateTime:    ts,
		Category:    category,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// Add appends a transaction; the ledger persists before this returns.
func (t *Tracker) Add(ctx context.Context, tx core.Transaction) error {
	if err := t.ledger.Add(ctx, tx); err != nil {
		return fmt.Errorf("add transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction added",
		"transaction_id", tx.ID,
		"type", tx.Type,
		"amount_cents", tx.Amount.Cents)
	return nil
}

// Update merges partial fields over the transaction with the id; false
// means the id was unknown.
func (t *Tracker) Update(ctx context.Context, id int64, fields ledger.Fields) (bool, error) {
	return t.ledger.Update(ctx, id, fields)
}

// Delete removes the transaction with the id; false means it was unknown.
func (t *Tracker) Delete(ctx context.Context, id int64) (bool, error) {
	return t.ledger.Delete(ctx, id)
}

// Clear empties the ledger.
func (t *Tracker) Clear(ctx context.Context) error {
	return t.ledger.Clear(ctx)
}

// List returns transactions filtered by the period window.
func (t *Tracker) List(period core.Period) []core.Transaction {
	return core.FilterByPeriod(t.ledger.All(), period, t.now())
}

// ImportCSV parses the CSV text and appends every valid row in one batch.
// Malformed rows are dropped; the returned count is what actually landed.
func (t *Tracker) ImportCSV(ctx context.Context, data string) (int, error) {
	txs := ledger.ParseCSV(data, t.now())
	if err := t.ledger.Import(ctx, txs); err != nil {
		return 0, fmt.Errorf("import transactions: %w", err)
	}
	slog.InfoContext(ctx, "CSV import completed", "rows", len(txs))
	return len(txs), nil
}

// ExportCSV serializes the whole ledger; ledger.ErrNoTransactions when
// there is nothing to export.
func (t *Tracker) ExportCSV() (string, error) {
	return t.ledger.ExportCSV()
}

// publishChange relays a ledger notification onto the event bus. Publish
// failures are logged and swallowed: the mutation already persisted.
func (t *Tracker) publishChange(ctx context.Context, c ledger.Change) {
	if t.events == nil {
		return
	}
	ev := amqp.NewLedgerEvent(c.Op, c.ID, c.Added, c.Size)
	if err := t.events.PublishLedgerEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"op", c.Op,
			"id", c.ID,
			"error", err)
	}
}

// Close closes the event bus connection when one is configured.
func (t *Tracker) Close() error {
	if t.events != nil {
		if err := t.events.Close(); err != nil {
			return fmt.Errorf("close tracker: amqp: %w", err)
		}
	}
	return nil
}
