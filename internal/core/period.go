package core

import (
	"fmt"
	"time"
)

// Period is a time-window predicate applied before listing and analysis.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// ParsePeriod maps a query value to a Period. The empty string means no
// filtering.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodAll, nil
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return Period(s), nil
	}
	return "", fmt.Errorf("invalid period %q", s)
}

// Start returns the inclusive lower bound of the window relative to now.
// The second return is false for PeriodAll, which has no bound.
func (p Period) Start(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	case PeriodYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), true
	case PeriodAll:
		return time.Time{}, false
	default:
		// Week is also the fallback window.
		return now.Add(-7 * 24 * time.Hour), true
	}
}

// FilterByPeriod keeps the transactions whose datetime falls inside the
// period's window, inclusive of the lower bound.
func FilterByPeriod(txs []Transaction, p Period, now time.Time) []Transaction {
	start, bounded := p.Start(now)
	if !bounded {
		return txs
	}
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if !t.DateTime.Before(start) {
			out = append(out, t)
		}
	}
	return out
}
