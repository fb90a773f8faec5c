// Package format renders amounts, rates and deadlines for display. All money
// is Indian rupees with lakh/crore digit grouping.
package format

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var rupeePrinter = message.NewPrinter(language.MustParse("en-IN"))

// Rupees renders an amount with the rupee sign and Indian digit grouping,
// e.g. 125000.5 -> "₹1,25,000.50". Whole amounts drop the paise.
func Rupees(amount float64) string {
	if amount == float64(int64(amount)) {
		return rupeePrinter.Sprintf("₹%v", number.Decimal(int64(amount)))
	}
	return rupeePrinter.Sprintf("₹%v", number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// CashbackRate renders a cashback percentage, trimming trailing zeros:
// 12 -> "12% back", 12.5 -> "12.5% back".
func CashbackRate(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64) + "% back"
}

// Countdown renders an offer deadline relative to now.
func Countdown(now, until time.Time) string {
	if !until.After(now) {
		return "Expired"
	}
	days := int(until.Sub(now).Hours() / 24)
	switch {
	case days == 0:
		return "Ends today"
	case days == 1:
		return "Ends tomorrow"
	default:
		return "Ends in " + strconv.Itoa(days) + " days"
	}
}

// FoldQuery prepares free text for matching: diacritics stripped, lowercased,
// whitespace collapsed.
func FoldQuery(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}
