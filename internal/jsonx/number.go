package jsonx

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/iwvelando/rehabdesk/pkg/money"
)

// Number is a float64 that also decodes from numeric strings such as
// "20000" or "$1,200.50", which form inputs commonly send.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		d, err := money.ParseAmount(s)
		if err != nil {
			return fmt.Errorf("invalid number: %w", err)
		}
		*n = Number(d.InexactFloat64())
		return nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return fmt.Errorf("invalid number %s", trimmed)
	}
	*n = Number(f)
	return nil
}

// Float returns n as a float64; a nil pointer reads as zero.
func (n *Number) Float() float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

// NewNumber returns a pointer to v.
func NewNumber(v float64) *Number {
	n := Number(v)
	return &n
}

// Text is a string that also decodes from JSON numbers and booleans, kept
// in their literal form.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '['):
		return fmt.Errorf("invalid text value %s", trimmed)
	default:
		*t = Text(trimmed)
		return nil
	}
}
