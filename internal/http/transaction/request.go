package transaction

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

// Request is the body accepted when creating or confirming transactions.
type Request struct {
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Type        string      `json:"type"`
	Category    string      `json:"category"`
}

// Input converts and validates the request. Errors wrap
// transaction.ErrInvalidInput.
func (r Request) Input() (transaction.Input, error) {
	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return transaction.Input{}, fmt.Errorf("%w: amount must be a number", transaction.ErrInvalidInput)
	}

	date, err := transaction.ParseDate(r.Date)
	if err != nil {
		return transaction.Input{}, err
	}

	typ, err := transaction.ParseType(r.Type)
	if err != nil {
		return transaction.Input{}, fmt.Errorf("%w: %w", transaction.ErrInvalidInput, err)
	}

	in := transaction.Input{
		Description: r.Description,
		Amount:      amount,
		Date:        date,
		Type:        typ,
		Category:    r.Category,
	}

	return in, in.Validate()
}

// ParseFilter reads type, category, start_date and end_date query params.
func ParseFilter(r *http.Request) (transaction.ListFilter, error) {
	q := r.URL.Query()
	filter := transaction.ListFilter{}

	if s := q.Get("type"); s != "" {
		t, err := transaction.ParseType(s)
		if err != nil {
			return filter, err
		}

		filter.Type = new(t)
	}

	if s := q.Get("category"); s != "" {
		filter.Category = new(s)
	}

	if s := q.Get("start_date"); s != "" {
		t, err := transaction.ParseDate(s)
		if err != nil {
			return filter, err
		}

		filter.StartDate = new(t)
	}

	if s := q.Get("end_date"); s != "" {
		t, err := transaction.ParseDate(s)
		if err != nil {
			return filter, err
		}

		filter.EndDate = new(t)
	}

	return filter, nil
}
