// Package validation checks user-supplied input: required fields, enumerated
// settings and CLI output formats.
package validation

import (
	"fmt"

	"github.com/iwvelando/rehabdesk/pkg/constants"
)

// ValidateOutputFormat checks a CLI --output-format value.
func ValidateOutputFormat(format string) error {
	if OneOf("output format", format, false, constants.OutputFormatPretty, constants.OutputFormatCSV) != nil {
		return fmt.Errorf("unsupported output format %q, expected %s or %s",
			format, constants.OutputFormatPretty, constants.OutputFormatCSV)
	}
	return nil
}
