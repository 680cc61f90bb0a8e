// Package format renders monetary amounts with Indian digit grouping, the
// way every user-facing surface of the app displays rupees.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Rupees formats an amount as "₹1,23,456" (lakh/crore grouping, no paise for
// whole amounts, two decimals otherwise).
func Rupees(amount float64) string {
	if amount == float64(int64(amount)) {
		return printer.Sprintf("₹%v", number.Decimal(amount, number.MaxFractionDigits(0)))
	}
	return printer.Sprintf("₹%v", number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
