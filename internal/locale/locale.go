// Package locale formats numbers the way French contract documents display them.
package locale

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotAvailable is printed in place of NaN or infinite values.
const NotAvailable = "N/A"

// Placeholders printed for missing or malformed dates.
const (
	UndefinedDate = "Date non définie"
	InvalidDate   = "Date invalide"
)

// maxAutoDigits is the largest number of decimals kept by Number.
const maxAutoDigits = 3

// GroupSeparator is the narrow no-break space browsers print between fr-FR digit groups.
// x/text's CLDR data uses U+00A0 instead, so output is rewritten to match.
const GroupSeparator = "\u202f"

var groupFixer = strings.NewReplacer("\u00a0", GroupSeparator)

// printer is the fr-FR message printer shared by all formatters.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.French)

// Number formats v with French grouping and up to three decimals, dropping trailing zeros.
// Example: Number(50000) returns "50 000" and Number(1024.6574) returns "1 024,657",
// the groups being separated by GroupSeparator.
func Number(v float64) string {
	if !isFinite(v) {
		return NotAvailable
	}
	rounded := roundHalfAway(v, maxAutoDigits)
	return groupFixer.Replace(printer.Sprint(number.Decimal(rounded, number.MaxFractionDigits(maxAutoDigits))))
}

// Fixed formats v with French grouping and exactly digits decimals.
// Example: Fixed(0.5, 2) returns "0,50".
func Fixed(v float64, digits int) string {
	if !isFinite(v) {
		return NotAvailable
	}
	if digits < 0 {
		digits = 0
	}
	rounded := roundHalfAway(v, digits)
	return groupFixer.Replace(printer.Sprint(number.Decimal(rounded,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	)))
}

// Euros formats v as a fixed amount followed by the euro sign.
func Euros(v float64, digits int) string {
	return Fixed(v, digits) + " €"
}

// Date formats t as a French calendar date (dd/mm/yyyy).
func Date(t time.Time) string {
	if t.IsZero() {
		return UndefinedDate
	}
	return t.Format("02/01/2006")
}

// DateString reformats a YYYY-MM-DD date for display. Unparsable input yields InvalidDate.
func DateString(s string) string {
	if s == "" {
		return UndefinedDate
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return InvalidDate
	}
	return Date(t)
}

// roundHalfAway rounds v to digits decimals, halves away from zero.
func roundHalfAway(v float64, digits int) float64 {
	const base = 10
	multiplier := math.Pow(base, float64(digits))
	rounded := math.Round(v*multiplier) / multiplier
	if rounded == 0 {
		return 0 // avoid "-0"
	}
	return rounded
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
