package core

import (
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	for _, s := range []string{"week", "month", "year", "all"} {
		p, err := ParsePeriod(s)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", s, err)
		}
		if string(p) != s {
			t.Fatalf("%q: got %q", s, p)
		}
	}

	if p, err := ParsePeriod(""); err != nil || p != PeriodAll {
		t.Fatalf("empty period: got %q, %v", p, err)
	}
	if _, err := ParsePeriod("decade"); err == nil {
		t.Fatal("expected error for unknown period")
	}
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		p       Period
		want    time.Time
		bounded bool
	}{
		{PeriodWeek, now.Add(-7 * 24 * time.Hour), true},
		{PeriodMonth, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{PeriodYear, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{PeriodAll, time.Time{}, false},
	}
	for i, tc := range cases {
		start, bounded := tc.p.Start(now)
		if bounded != tc.bounded {
			t.Fatalf("case %d: bounded=%v, want %v", i, bounded, tc.bounded)
		}
		if bounded && !start.Equal(tc.want) {
			t.Fatalf("case %d: start=%v, want %v", i, start, tc.want)
		}
	}
}

func TestFilterByPeriod(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{ID: 1, DateTime: now.Add(-time.Hour)},                 // this week
		{ID: 2, DateTime: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)},  // this month
		{ID: 3, DateTime: time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)}, // this year
		{ID: 4, DateTime: time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)},  // previous year
	}

	counts := map[Period]int{
		PeriodWeek:  1,
		PeriodMonth: 2,
		PeriodYear:  3,
		PeriodAll:   4,
	}
	for p, want := range counts {
		got := FilterByPeriod(txs, p, now)
		if len(got) != want {
			t.Fatalf("%s: expected %d transactions, got %d", p, want, len(got))
		}
	}

	// Lower bound is inclusive.
	edge := []Transaction{{ID: 9, DateTime: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}}
	if got := FilterByPeriod(edge, PeriodMonth, now); len(got) != 1 {
		t.Fatalf("expected boundary transaction to be kept, got %d", len(got))
	}
}
