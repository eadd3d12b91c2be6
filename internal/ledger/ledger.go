// Package ledger owns the transaction collection and its view state.
//
// The ledger is the single source of truth: every mutation rewrites the
// whole collection to the backing store before it returns. Mutation and
// persistence happen under one mutex so the write always reflects the
// state it claims to.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"dompet/internal/core"
	"dompet/internal/kvstore"
)

const (
	// DefaultPageSize matches the presentation layer's five-row list.
	DefaultPageSize = 5

	// StorageKey is where the serialized collection lives in the store.
	StorageKey = "transactions"
)

// ErrDuplicateID rejects an Add whose id is already in the collection.
var ErrDuplicateID = errors.New("duplicate transaction id")

// Change describes a completed mutation, delivered to subscribers after
// the persistence write succeeded.
type Change struct {
	Op    string
	Added []core.Transaction
	ID    int64
	Size  int
}

const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpDelete = "delete"
	OpClear  = "clear"
	OpImport = "import"
)

// Fields carries a partial update; nil members keep their prior values.
type Fields struct {
	Type        *core.TransactionType
	Amount      *core.Money
	Description *string
	DateTime    *string // ISO-like, parsed with core.ParseDateTime
	Category    *string
}

// Balance is the one-pass sum over the whole collection.
type Balance struct {
	Current core.Money `json:"current"`
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
}

type Ledger struct {
	mu          sync.Mutex
	store       kvstore.Store
	items       []core.Transaction
	page        int
	pageSize    int
	subscribers []func(context.Context, Change)
}

type Option func(*Ledger)

// WithPageSize overrides the default page size.
func WithPageSize(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.pageSize = n
		}
	}
}

// Open loads the persisted collection from the store. A missing key means
// an empty ledger; a corrupt blob is an error.
func Open(ctx context.Context, store kvstore.Store, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store:    store,
		items:    []core.Transaction{},
		page:     1,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(l)
	}

	blob, ok, err := store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if ok && blob != "" {
		if err := json.Unmarshal([]byte(blob), &l.items); err != nil {
			return nil, fmt.Errorf("decode transactions: %w", err)
		}
	}
	return l, nil
}

// Subscribe registers a callback invoked after every successful mutation.
// Callbacks run outside the ledger lock, on the mutating goroutine.
func (l *Ledger) Subscribe(fn func(context.Context, Change)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

func (l *Ledger) notify(ctx context.Context, c Change) {
	l.mu.Lock()
	subs := append(([]func(context.Context, Change))(nil), l.subscribers...)
	l.mu.Unlock()
	for _, fn := range subs {
		fn(ctx, c)
	}
}

func (l *Ledger) persistLocked(ctx context.Context) error {
	blob, err := json.Marshal(l.items)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := l.store.Set(ctx, StorageKey, string(blob)); err != nil {
		return fmt.Errorf("persist transactions: %w", err)
	}
	return nil
}

// Add appends a transaction and persists. Ids must be unique; a clash is
// rejected rather than silently tolerated.
func (l *Ledger) Add(ctx context.Context, tx core.Transaction) error {
	l.mu.Lock()
	for _, existing := range l.items {
		if existing.ID == tx.ID {
			l.mu.Unlock()
			return ErrDuplicateID
		}
	}
	l.items = append(l.items, tx)
	if err := l.persistLocked(ctx); err != nil {
		l.items = l.items[:len(l.items)-1]
		l.mu.Unlock()
		return err
	}
	size := len(l.items)
	l.mu.Unlock()

	l.notify(ctx, Change{Op: OpAdd, Added: []core.Transaction{tx}, ID: tx.ID, Size: size})
	return nil
}

// Update merges the given fields over the transaction with the id and
// persists. It reports false, without error, when the id is unknown.
func (l *Ledger) Update(ctx context.Context, id int64, fields Fields) (bool, error) {
	l.mu.Lock()
	idx := l.indexOfLocked(id)
	if idx < 0 {
		l.mu.Unlock()
		return false, nil
	}

	prev := l.items[idx]
	next := prev
	if fields.Type != nil {
		next.Type = *fields.Type
	}
	if fields.Amount != nil {
		next.Amount = *fields.Amount
	}
	if fields.Description != nil {
		next.Description = *fields.Description
	}
	if fields.DateTime != nil {
		ts, err := core.ParseDateTime(*fields.DateTime)
		if err != nil {
			l.mu.Unlock()
			return false, err
		}
		next.DateTime = ts
	}
	if fields.Category != nil {
		next.Category = *fields.Category
	}

	l.items[idx] = next
	if err := l.persistLocked(ctx); err != nil {
		l.items[idx] = prev
		l.mu.Unlock()
		return false, err
	}
	size := len(l.items)
	l.mu.Unlock()

	l.notify(ctx, Change{Op: OpUpdate, ID: id, Size: size})
	return true, nil
}

// Delete removes the transaction with the id, persists and re-clamps the
// current page. It reports false, without error, when the id is unknown.
func (l *Ledger) Delete(ctx context.Context, id int64) (bool, error) {
	l.mu.Lock()
	idx := l.indexOfLocked(id)
	if idx < 0 {
		l.mu.Unlock()
		return false, nil
	}

	removed := l.items[idx]
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	if err := l.persistLocked(ctx); err != nil {
		l.items = append(l.items[:idx], append([]core.Transaction{removed}, l.items[idx:]...)...)
		l.mu.Unlock()
		return false, err
	}
	if total := l.totalPagesLocked(); l.page > total && total > 0 {
		l.page = total
	}
	size := len(l.items)
	l.mu.Unlock()

	l.notify(ctx, Change{Op: OpDelete, ID: id, Size: size})
	return true, nil
}

// Clear empties the collection, resets the page to 1 and persists.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	prev := l.items
	l.items = []core.Transaction{}
	if err := l.persistLocked(ctx); err != nil {
		l.items = prev
		l.mu.Unlock()
		return err
	}
	l.page = 1
	l.mu.Unlock()

	l.notify(ctx, Change{Op: OpClear, Size: 0})
	return nil
}

// Import appends a whole batch and persists once.
func (l *Ledger) Import(ctx context.Context, txs []core.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	l.mu.Lock()
	prevLen := len(l.items)
	l.items = append(l.items, txs...)
	if err := l.persistLocked(ctx); err != nil {
		l.items = l.items[:prevLen]
		l.mu.Unlock()
		return err
	}
	size := len(l.items)
	l.mu.Unlock()

	l.notify(ctx, Change{Op: OpImport, Added: txs, Size: size})
	return nil
}

// All returns a copy of the full collection in insertion order.
func (l *Ledger) All() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Transaction(nil), l.items...)
}

// Page returns the current page of the collection sorted by datetime
// descending.
func (l *Ledger) Page() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	sorted := append([]core.Transaction(nil), l.items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateTime.After(sorted[j].DateTime)
	})

	start := (l.page - 1) * l.pageSize
	if start >= len(sorted) {
		return []core.Transaction{}
	}
	end := start + l.pageSize
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[start:end]
}

// TotalPages is ceil(size / pageSize); zero for an empty ledger.
func (l *Ledger) TotalPages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalPagesLocked()
}

func (l *Ledger) totalPagesLocked() int {
	return (len(l.items) + l.pageSize - 1) / l.pageSize
}

func (l *Ledger) CurrentPage() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

func (l *Ledger) PageSize() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pageSize
}

// SetPage clamps n into [1, max(1, totalPages)] and returns the page
// actually applied.
func (l *Ledger) SetPage(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	max := l.totalPagesLocked()
	if max < 1 {
		max = 1
	}
	if n < 1 {
		n = 1
	}
	if n > max {
		n = max
	}
	l.page = n
	return n
}

// Size returns the number of transactions.
func (l *Ledger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Balance scans the collection once, summing income and expense amounts.
func (l *Ledger) Balance() Balance {
	l.mu.Lock()
	defer l.mu.Unlock()

	var income, expense core.Money
	for _, t := range l.items {
		if t.Type == core.Income {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}
	return Balance{Current: income.Sub(expense), Income: income, Expense: expense}
}

func (l *Ledger) indexOfLocked(id int64) int {
	for i, t := range l.items {
		if t.ID == id {
			return i
		}
	}
	return -1
}
