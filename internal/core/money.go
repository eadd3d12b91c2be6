// Package core holds the domain types shared by the ledger and the
// insights engine.
//
// Money is stored as int64 cents. Floats appear only at the parse and
// format boundaries so that aggregation over many small transactions
// never accumulates binary rounding drift.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is a fixed-point amount in cents of the implicit currency.
type Money struct {
	Cents int64
}

// ParseAmount converts a decimal string to Money with half-up rounding
// on the third decimal place. Both dot and comma separators are accepted.
// Negative values are rejected; zero is allowed.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Money{}, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return Money{Cents: iv*100 + fracCents}, nil
}

// FromFloat converts a unit amount to Money, rounding to the nearest cent.
func FromFloat(units float64) Money {
	return Money{Cents: int64(math.Round(units * 100))}
}

// Units returns the amount in whole currency units for display purposes.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// MulFloat scales the amount, rounding to the nearest cent.
func (m Money) MulFloat(f float64) Money {
	return Money{Cents: int64(math.Round(float64(m.Cents) * f))}
}

// String renders the amount as a plain decimal with trailing zeros
// trimmed: "50000", "12.5", "12.34".
func (m Money) String() string {
	c := m.Cents
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	whole, frac := c/100, c%100
	switch {
	case frac == 0:
		return sign + strconv.FormatInt(whole, 10)
	case frac%10 == 0:
		return sign + strconv.FormatInt(whole, 10) + "." + strconv.FormatInt(frac/10, 10)
	default:
		return sign + strconv.FormatInt(whole, 10) + "." + pad2(frac)
	}
}

// Grouped renders the amount with id-ID style separators: dots between
// thousands groups, comma before any fractional part. 1234550 cents
// becomes "12.345,5".
func (m Money) Grouped() string {
	c := m.Cents
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	whole, frac := c/100, c%100
	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	out := sign + b.String()
	switch {
	case frac == 0:
		return out
	case frac%10 == 0:
		return out + "," + strconv.FormatInt(frac/10, 10)
	default:
		return out + "," + pad2(frac)
	}
}

// Short abbreviates large amounts: one decimal plus "M" from a million
// units up, a rounded integer plus "K" from a thousand up, grouped
// otherwise.
func (m Money) Short() string {
	units := m.Units()
	switch {
	case units >= 1_000_000:
		return strconv.FormatFloat(units/1_000_000, 'f', 1, 64) + "M"
	case units >= 1_000:
		return strconv.FormatInt(int64(math.Round(units/1_000)), 10) + "K"
	default:
		return m.Grouped()
	}
}

// MarshalJSON emits the amount as a plain JSON number in currency units.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Units(), 'f', -1, 64)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	units, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return ErrInvalidAmount
	}
	*m = FromFloat(units)
	return nil
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
