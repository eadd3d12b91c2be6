package amqp

import (
	"encoding/json"
	"time"

	"dompet/internal/core"
)

// TransactionPayload is a wire snapshot of one transaction, carried in
// ledger events so consumers never need store access.
type TransactionPayload struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	AmountCents int64     `json:"amount_cents"`
	Description string    `json:"description"`
	DateTime    time.Time `json:"datetime"`
	Category    string    `json:"category,omitempty"`
}

// PayloadFromTransaction converts a domain transaction to its wire form.
func PayloadFromTransaction(t core.Transaction) TransactionPayload {
	return TransactionPayload{
		ID:          t.ID,
		Type:        string(t.Type),
		AmountCents: t.Amount.Cents,
		Description: t.Description,
		DateTime:    t.DateTime,
		Category:    t.Category,
	}
}

// Transaction converts the wire form back to the domain type.
func (p TransactionPayload) Transaction() core.Transaction {
	return core.Transaction{
		ID:          p.ID,
		Type:        core.TransactionType(p.Type),
		Amount:      core.Money{Cents: p.AmountCents},
		Description: p.Description,
		DateTime:    p.DateTime,
		Category:    p.Category,
	}
}

// LedgerEvent announces a completed ledger mutation.
type LedgerEvent struct {
	Op           string               `json:"op"`
	ID           int64                `json:"id,omitempty"`
	Transactions []TransactionPayload `json:"transactions,omitempty"`
	Size         int                  `json:"size"`
	Timestamp    time.Time            `json:"timestamp"`
}

// NewLedgerEvent creates an event for the given operation.
func NewLedgerEvent(op string, id int64, added []core.Transaction, size int) *LedgerEvent {
	ev := &LedgerEvent{
		Op:        op,
		ID:        id,
		Size:      size,
		Timestamp: time.Now(),
	}
	for _, t := range added {
		ev.Transactions = append(ev.Transactions, PayloadFromTransaction(t))
	}
	return ev
}

// ToJSON converts the event to JSON bytes
func (ev *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(ev)
}

// LedgerEventFromJSON creates an event from JSON bytes
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
