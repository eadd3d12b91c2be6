// Package worker consumes ledger change events and keeps the Google
// Sheets mirror fed.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"dompet/internal/amqp"
	"dompet/internal/core"
	"dompet/internal/ledger"
)

// Appender writes one transaction row to the mirror and returns the
// updated range. *sheets.Client satisfies it.
type Appender interface {
	AppendTransaction(ctx context.Context, t core.Transaction) (string, error)
}

// Mirror appends transactions carried by add/import events to the sheet.
// Updates, deletes and clears are acknowledged but not reconciled; the
// sheet is an audit trail, not a replica.
type Mirror struct {
	sheets Appender
}

func NewMirror(sheets Appender) *Mirror {
	return &Mirror{sheets: sheets}
}

// HandleEvent processes one ledger event. Returning an error requeues
// the event.
func (m *Mirror) HandleEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	switch ev.Op {
	case ledger.OpAdd, ledger.OpImport:
		for _, payload := range ev.Transactions {
			tx := payload.Transaction()
			if _, err := m.sheets.AppendTransaction(ctx, tx); err != nil {
				return fmt.Errorf("mirror transaction %d: %w", tx.ID, err)
			}
		}
		slog.InfoContext(ctx, "Mirrored ledger event",
			"op", ev.Op,
			"rows", len(ev.Transactions))
		return nil
	default:
		slog.DebugContext(ctx, "Skipping non-append ledger event", "op", ev.Op, "id", ev.ID)
		return nil
	}
}
