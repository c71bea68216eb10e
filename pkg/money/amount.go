// Package money parses the string-typed currency amounts stored on ledger
// entries and totals them without float drift.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-entered amount such as "1,234.50", "$99" or
// "(250.00)". Parentheses denote a negative amount. An empty string is zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// Total accumulates amounts and counts entries that could not be parsed.
type Total struct {
	Sum     decimal.Decimal
	Skipped int
}

// Add parses raw and adds it to the total. Unparseable amounts are counted
// in Skipped and otherwise ignored.
func (t *Total) Add(raw string) {
	d, err := ParseAmount(raw)
	if err != nil {
		t.Skipped++
		return
	}
	t.Sum = t.Sum.Add(d)
}

// Float returns the sum rounded to cents as a float64.
func (t Total) Float() float64 {
	return t.Sum.Round(2).InexactFloat64()
}
