package validation

import (
	"fmt"
	"slices"
	"strings"
)

// Field is a named input value checked for presence.
type Field struct {
	Name  string
	Value string
}

// Required builds a Field.
func Required(name, value string) Field {
	return Field{Name: name, Value: value}
}

// MissingFields returns the names of fields whose value is blank, in the
// order given.
func MissingFields(fields ...Field) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// OneOf checks that value is one of allowed. An empty value passes when
// optional is true.
func OneOf(field, value string, optional bool, allowed ...string) error {
	if value == "" && optional {
		return nil
	}
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value)
}
