package video

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders cents in the given currency for display, e.g. "$ 4.99".
// Codes that are not ISO 4217 fall back to "4.99 CODE".
func FormatPrice(cents int64, code string) string {
	amount := float64(cents) / 100
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return fmt.Sprintf("%.2f %s", amount, strings.ToUpper(code))
	}
	return printer.Sprint(currency.Symbol(unit.Amount(amount)))
}

// Price is the display price of a premium video, empty for free ones.
func (v *Video) Price() string {
	if !v.IsPremium {
		return ""
	}
	return FormatPrice(v.PriceCents, v.Currency)
}
