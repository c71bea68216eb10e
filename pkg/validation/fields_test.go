package validation

import (
	"reflect"
	"testing"
)

func TestMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		fields   []Field
		expected []string
	}{
		{
			name:     "All present",
			fields:   []Field{Required("date", "2025-01-01"), Required("amount", "100")},
			expected: nil,
		},
		{
			name:     "Blank and whitespace",
			fields:   []Field{Required("date", ""), Required("type", "rent"), Required("amount", "  ")},
			expected: []string{"date", "amount"},
		},
		{
			name:     "No fields",
			fields:   nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingFields(tt.fields...)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("MissingFields() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestOneOf(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		optional  bool
		expectErr bool
	}{
		{"Allowed value", "cash", false, false},
		{"Other allowed value", "loan", false, false},
		{"Empty optional", "", true, false},
		{"Empty required", "", false, true},
		{"Unknown value", "barter", true, true},
		{"Case sensitive", "Cash", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := OneOf("financingType", tt.value, tt.optional, "cash", "loan")
			if tt.expectErr && err == nil {
				t.Errorf("expected error for %q", tt.value)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error for %q: %v", tt.value, err)
			}
		})
	}
}
