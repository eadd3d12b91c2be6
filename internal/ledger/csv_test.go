package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"dompet/internal/core"
)

func TestExportCSVEmpty(t *testing.T) {
	l := openEmpty(t)
	if _, err := l.ExportCSV(); !errors.Is(err, ErrNoTransactions) {
		t.Fatalf("expected ErrNoTransactions, got %v", err)
	}
}

func TestExportCSVFormat(t *testing.T) {
	ctx := context.Background()
	l := openEmpty(t)

	adds := []core.Transaction{
		tx(1, core.Income, 5000000, "Freelance", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)),
		tx(2, core.Expense, 1250, "Coffee, beans", time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC)),
	}
	for _, a := range adds {
		if err := l.Add(ctx, a); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	out, err := l.ExportCSV()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Date,Type,Amount,Description" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "01/03/2024 10:00:00,IN,50000,Freelance" {
		t.Fatalf("unexpected row %q", lines[1])
	}
	// Descriptions with commas are quoted, others are not.
	if lines[2] != `02/03/2024 08:30:00,OUT,12.5,"Coffee, beans"` {
		t.Fatalf("unexpected row %q", lines[2])
	}
}

func TestParseCSV(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	data := strings.Join([]string{
		"Date,Type,Amount,Description",
		"01/03/2024 10:00:00,IN,50000,Freelance",
		`02/03/2024 08:30:00,OUT,12.5,"Coffee, beans"`,
		"03/03/2024,out,100,No time part",
		"2024-03-04T09:00:00,income,200,ISO datetime",
	}, "\n")

	txs := ParseCSV(data, now)
	if len(txs) != 4 {
		t.Fatalf("expected 4 transactions, got %d", len(txs))
	}

	first := txs[0]
	if first.Type != core.Income || first.Amount.Cents != 5000000 || first.Description != "Freelance" {
		t.Fatalf("unexpected first row: %+v", first)
	}
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if !first.DateTime.Equal(want) {
		t.Fatalf("expected %v, got %v", want, first.DateTime)
	}

	if txs[1].Description != "Coffee, beans" {
		t.Fatalf("quoted description lost: %q", txs[1].Description)
	}
	if h := txs[2].DateTime.Hour(); h != 0 {
		t.Fatalf("date-only row should be midnight, got hour %d", h)
	}
	if txs[3].Type != core.Income {
		t.Fatalf("expected income for ISO row, got %s", txs[3].Type)
	}

	// Ids are minted from the clock, offset by row index, so a batch
	// never collides with itself.
	seen := map[int64]bool{}
	for _, parsed := range txs {
		if seen[parsed.ID] {
			t.Fatalf("duplicate id %d in batch", parsed.ID)
		}
		seen[parsed.ID] = true
		if parsed.ID < now.UnixMilli() {
			t.Fatalf("id %d below clock base", parsed.ID)
		}
	}
}

func TestParseCSVDropsMalformedRows(t *testing.T) {
	now := time.Now()
	data := strings.Join([]string{
		"Date,Type,Amount,Description",
		"garbage line",
		"01/03/2024,TRANSFER,100,bad type",
		"01/03/2024,IN,abc,bad amount",
		"13/13/2024,IN,100,bad date",
		"01/03/2024,IN,100,good row",
	}, "\n")

	txs := ParseCSV(data, now)
	if len(txs) != 1 {
		t.Fatalf("expected 1 surviving row, got %d", len(txs))
	}
	if txs[0].Description != "good row" {
		t.Fatalf("unexpected survivor: %+v", txs[0])
	}
}

func TestParseCSVWithoutHeader(t *testing.T) {
	txs := ParseCSV("01/03/2024 10:00:00,IN,100,no header here", time.Now())
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
}

func TestParseCSVEmptyInput(t *testing.T) {
	if txs := ParseCSV("", time.Now()); txs != nil {
		t.Fatalf("expected nil, got %+v", txs)
	}
	if txs := ParseCSV("\n \n\n", time.Now()); txs != nil {
		t.Fatalf("expected nil for blank lines, got %+v", txs)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := openEmpty(t)

	adds := []core.Transaction{
		tx(1, core.Income, 100000000, "Salary", time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)),
		tx(2, core.Expense, 4575, "Groceries, weekly", time.Date(2024, 2, 3, 18, 15, 30, 0, time.UTC)),
		tx(3, core.Expense, 1200000, "Rent", time.Date(2024, 2, 5, 8, 0, 0, 0, time.UTC)),
	}
	for _, a := range adds {
		if err := l.Add(ctx, a); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	out, err := l.ExportCSV()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	back := ParseCSV(out, time.Now())
	if len(back) != len(adds) {
		t.Fatalf("expected %d rows back, got %d", len(adds), len(back))
	}
	for i, orig := range adds {
		got := back[i]
		if got.Type != orig.Type || got.Amount != orig.Amount || got.Description != orig.Description {
			t.Fatalf("row %d mismatch: got %+v want %+v", i, got, orig)
		}
		if !got.DateTime.Equal(orig.DateTime) {
			t.Fatalf("row %d datetime mismatch: got %v want %v", i, got.DateTime, orig.DateTime)
		}
	}
}
