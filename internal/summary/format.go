package summary

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

// FormatBRL renders d as "R$ 12.34". Display only, no thousands separator.
func FormatBRL(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

// SignedBRL prefixes the amount with the direction implied by t.
func SignedBRL(t transaction.Type, d decimal.Decimal) string {
	sign := "-"
	if t == transaction.TypeIncome {
		sign = "+"
	}

	return sign + " " + FormatBRL(d)
}
