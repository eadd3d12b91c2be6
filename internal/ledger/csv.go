package ledger

import (
	"errors"
	"strings"
	"time"

	"dompet/internal/core"
)

// ErrNoTransactions signals an export attempt against an empty ledger.
var ErrNoTransactions = errors.New("no transactions to export")

const csvHeader = "Date,Type,Amount,Description"

// ExportCSV serializes the collection in insertion order. Descriptions
// are wrapped in double quotes only when they contain a comma; embedded
// quote characters are left as-is, a known format limitation.
func (l *Ledger) ExportCSV() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.items) == 0 {
		return "", ErrNoTransactions
	}

	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')
	for _, t := range l.items {
		b.WriteString(t.DateTime.Format("02/01/2006 15:04:05"))
		b.WriteByte(',')
		if t.Type == core.Income {
			b.WriteString("IN")
		} else {
			b.WriteString("OUT")
		}
		b.WriteByte(',')
		b.WriteString(t.Amount.String())
		b.WriteByte(',')
		desc := t.Description
		if strings.Contains(desc, ",") {
			desc = `"` + desc + `"`
		}
		b.WriteString(desc)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// ParseCSV is a lossy, best-effort parse: malformed rows are dropped, not
// reported, so the output may be shorter than the input. An optional
// header row is detected by the substring "date" in the first line.
// Row ids are minted from now offset by the row index so one import batch
// never collides with itself.
func ParseCSV(data string, now time.Time) []core.Transaction {
	var lines []string
	for _, line := range strings.Split(data, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	start := 0
	if strings.Contains(strings.ToLower(lines[0]), "date") {
		start = 1
	}

	base := now.UnixMilli()
	var imported []core.Transaction
	for i := start; i < len(lines); i++ {
		parts := splitQuoted(strings.TrimSpace(lines[i]))
		if len(parts) < 4 {
			continue
		}

		ts, ok := parseRowDate(parts[0])
		if !ok {
			continue
		}

		var txType core.TransactionType
		switch strings.ToLower(parts[1]) {
		case "in", "income":
			txType = core.Income
		case "out", "expense":
			txType = core.Expense
		default:
			continue
		}

		amount, err := core.ParseAmount(parts[2])
		if err != nil {
			continue
		}

		desc := parts[3]
		if strings.HasPrefix(desc, `"`) && strings.HasSuffix(desc, `"`) && len(desc) >= 2 {
			desc = desc[1 : len(desc)-1]
		}

		imported = append(imported, core.Transaction{
			ID:          base + int64(i),
			Type:        txType,
			Amount:      amount,
			Description: desc,
			DateTime:    ts,
		})
	}
	return imported
}

// splitQuoted splits on commas with quote-aware scanning: a double quote
// toggles an in-quotes flag and commas inside quotes do not split. The
// quote characters themselves are consumed.
func splitQuoted(line string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	parts = append(parts, strings.TrimSpace(current.String()))
	return parts
}

// parseRowDate accepts DD/MM/YYYY with an optional HH:MM:SS part, or an
// ISO-like datetime containing a T. Anything else fails the row.
func parseRowDate(s string) (time.Time, bool) {
	switch {
	case strings.Contains(s, "/"):
		datePart, timePart, _ := strings.Cut(s, " ")
		dmy := strings.Split(datePart, "/")
		if len(dmy) != 3 {
			return time.Time{}, false
		}
		if timePart == "" {
			timePart = "00:00:00"
		}
		iso := dmy[2] + "-" + dmy[1] + "-" + dmy[0] + "T" + timePart
		ts, err := core.ParseDateTime(iso)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	case strings.Contains(s, "T"):
		ts, err := core.ParseDateTime(s)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	default:
		return time.Time{}, false
	}
}
