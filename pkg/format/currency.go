// Package format renders amounts for display.
package format

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := NumericCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	return printer.Sprintf("%.2f", amount)
}

// OptionalCurrency formats a nullable amount, rendering an unknown amount as
// placeholder.
func OptionalCurrency(amount *float64, placeholder string) string {
	if amount == nil {
		return placeholder
	}
	return Currency(*amount)
}

// PlainAmount formats a nullable amount with two decimals and no separators,
// as used in CSV output. Unknown amounts render as an empty string.
func PlainAmount(amount *float64) string {
	if amount == nil {
		return ""
	}
	return strconv.FormatFloat(*amount, 'f', 2, 64)
}

// Percent formats a rate given in percent (e.g., "5.25%").
func Percent(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}
