package amqp

import (
	"testing"
	"time"

	"dompet/internal/core"
)

func TestLedgerEventJSONRoundTrip(t *testing.T) {
	tx := core.Transaction{
		ID:          1700000000000,
		Type:        core.Expense,
		Amount:      core.Money{Cents: 1250},
		Description: "coffee",
		DateTime:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Category:    "food",
	}

	ev := NewLedgerEvent("add", tx.ID, []core.Transaction{tx}, 3)
	data, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	back, err := LedgerEventFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Op != "add" || back.ID != tx.ID || back.Size != 3 {
		t.Fatalf("envelope mismatch: %+v", back)
	}
	if len(back.Transactions) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(back.Transactions))
	}

	got := back.Transactions[0].Transaction()
	if got.ID != tx.ID || got.Type != tx.Type || got.Amount != tx.Amount ||
		got.Description != tx.Description || !got.DateTime.Equal(tx.DateTime) ||
		got.Category != tx.Category {
		t.Fatalf("payload mismatch: got %+v want %+v", got, tx)
	}
}

func TestLedgerEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := LedgerEventFromJSON([]byte("{broken")); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestNewLedgerEventWithoutTransactions(t *testing.T) {
	ev := NewLedgerEvent("clear", 0, nil, 0)
	if len(ev.Transactions) != 0 {
		t.Fatalf("expected no payloads, got %d", len(ev.Transactions))
	}
	if ev.Timestamp.IsZero() {
		t.Fatal("timestamp must be stamped")
	}
}
