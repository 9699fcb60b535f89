package transaction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("transaction not found")
	ErrInvalidInput = errors.New("invalid transaction input")
	ErrInvalidType  = errors.New("invalid transaction type")
)

// Type is the closed set of transaction kinds. It determines both the sign
// used in aggregation and the display polarity.
type Type string

const (
	TypeIncome  Type = "INCOME"
	TypeExpense Type = "EXPENSE"
	TypeTax     Type = "TAX"
)

// Types lists every known Type in display order.
var Types = []Type{TypeIncome, TypeExpense, TypeTax}

// ParseType parses a type tag, ignoring case and surrounding spaces.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}

	return t, nil
}

func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTax:
		return true
	}

	return false
}

// Sign returns +1 for money coming in, -1 for money going out and 0 for an
// unknown tag.
func (t Type) Sign() int {
	switch t {
	case TypeIncome:
		return 1
	case TypeExpense, TypeTax:
		return -1
	}

	return 0
}

// Label is the localized singular label used in exports and forms.
func (t Type) Label() string {
	switch t {
	case TypeIncome:
		return "Receita"
	case TypeExpense:
		return "Despesa"
	case TypeTax:
		return "Imposto"
	}

	return string(t)
}

// PluralLabel is the localized label used by the dashboard flow chart.
func (t Type) PluralLabel() string {
	switch t {
	case TypeIncome:
		return "Receitas"
	case TypeExpense:
		return "Despesas"
	case TypeTax:
		return "Impostos"
	}

	return string(t)
}

func (t Type) Color() string {
	switch t {
	case TypeIncome:
		return "#34d399"
	case TypeExpense:
		return "#f87171"
	case TypeTax:
		return "#fbbf24"
	}

	return "#94a3b8"
}

// Transaction is a single recorded financial event. Records are immutable
// once stored.
type Transaction struct {
	ID          string
	Description string
	Amount      decimal.Decimal // Magnitude only, direction comes from Type
	Date        time.Time
	Type        Type
	Category    string
}

// Input carries the caller-supplied fields of a new transaction.
type Input struct {
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Type        Type
	Category    string
}

// Validate reports the first problem found in the input. Every returned error
// wraps ErrInvalidInput.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}

	if in.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}

	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidInput, in.Type)
	}

	if strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}

	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, s)
	}

	return d, nil
}

// ParseAmount reads a non-negative amount typed by a person. Both
// "1.234,56" and "1234.56" are accepted, with an optional "R$" prefix.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", ErrInvalidInput, s)
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}

	return d, nil
}

// DateOnly truncates t to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
