package rules

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseAmount accepts both "1.234,56" and "1,234.56" styles, an optional
// "R$" prefix and a sign that may be separated by spaces.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, "R$", "")
	clean = strings.ReplaceAll(clean, " ", "")

	lastComma := strings.LastIndex(clean, ",")
	lastDot := strings.LastIndex(clean, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.ReplaceAll(clean, ",", ".")
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastComma >= 0:
		clean = strings.ReplaceAll(clean, ",", ".")
	case strings.Count(clean, ".") > 1:
		clean = strings.ReplaceAll(clean, ".", "")
	}

	return decimal.NewFromString(clean)
}
