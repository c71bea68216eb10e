// Package format renders money for human readers.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := printer.Sprintf("%.2f", math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// WholeCurrency returns a currency string rounded to whole units (e.g., "-$1,235").
func WholeCurrency(amount float64) string {
	formatted := printer.Sprintf("%.0f", math.Abs(amount))
	if amount <= -0.5 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Percent returns a ratio as a percentage string with one decimal (0.1234 -> "12.3%").
func Percent(ratio float64) string {
	return printer.Sprintf("%.1f%%", ratio*100)
}
