package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DefaultCategory is the tag assumed for expenses recorded without one.
const DefaultCategory = "other"

type (
	TransactionType string

	// Transaction is a single income or expense record.
	Transaction struct {
		ID          int64
		Type        TransactionType
		Amount      Money
		Description string
		DateTime    time.Time
		Category    string
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidDateTime  = errors.New("invalid datetime")
)

// DateTimeLayout is the persisted wire form for timestamps. Values coming
// from the presentation layer may omit seconds (datetime-local inputs).
const (
	DateTimeLayout       = "2006-01-02T15:04:05"
	dateTimeLayoutMinute = "2006-01-02T15:04"
)

// ParseDateTime parses an ISO-like timestamp. Values are kept in their
// natural ordering with no timezone normalization.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateTimeLayout, dateTimeLayoutMinute, time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}

func (tt TransactionType) Valid() bool {
	switch tt {
	case Income, Expense:
		return true
	}
	return false
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if t.DateTime.IsZero() {
		return ErrInvalidDateTime
	}
	return nil
}

// CategoryOrDefault returns the category tag, falling back to "other".
func (t Transaction) CategoryOrDefault() string {
	if strings.TrimSpace(t.Category) == "" {
		return DefaultCategory
	}
	return t.Category
}

// transactionJSON is the persisted layout: amount as a plain number and
// datetime as an ISO-like string.
type transactionJSON struct {
	ID          int64           `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      Money           `json:"amount"`
	Description string          `json:"description"`
	DateTime    string          `json:"datetime"`
	Category    string          `json:"category,omitempty"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:          t.ID,
		Type:        t.Type,
		Amount:      t.Amount,
		Description: t.Description,
		DateTime:    t.DateTime.Format(DateTimeLayout),
		Category:    t.Category,
	})
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ts, err := ParseDateTime(raw.DateTime)
	if err != nil {
		return err
	}
	*t = Transaction{
		ID:          raw.ID,
		Type:        raw.Type,
		Amount:      raw.Amount,
		Description: raw.Description,
		DateTime:    ts,
		Category:    raw.Category,
	}
	return nil
}
