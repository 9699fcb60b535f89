package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

var (
	errMissingID      = errors.New("missing id")
	errDuplicateID    = errors.New("duplicate id")
	errNegativeAmount = errors.New("negative amount")
)

// record is the on-disk shape of a transaction. Amounts are written as JSON
// numbers and dates as YYYY-MM-DD.
type record struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Type        string      `json:"type"`
	Category    string      `json:"category"`
}

func encode(txs []*transaction.Transaction) ([]byte, error) {
	records := make([]record, len(txs))

	for i, tx := range txs {
		records[i] = record{
			ID:          tx.ID,
			Description: tx.Description,
			Amount:      json.Number(tx.Amount.String()),
			Date:        tx.Date.Format("2006-01-02"),
			Type:        string(tx.Type),
			Category:    tx.Category,
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	return data, nil
}

// decode parses a snapshot. Empty input is an empty collection; anything that
// is not a well-formed array of records is an error, and so is a record with
// an empty or repeated id, a negative amount or an unknown type.
func decode(data []byte) ([]*transaction.Transaction, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	txs := make([]*transaction.Transaction, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("decoding snapshot record %d: %w", i, errMissingID)
		}

		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("decoding snapshot record %d: %w %q", i, errDuplicateID, r.ID)
		}

		seen[r.ID] = struct{}{}

		amount, err := decimal.NewFromString(r.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("decoding snapshot record %d amount: %w", i, err)
		}

		if amount.IsNegative() {
			return nil, fmt.Errorf("decoding snapshot record %d: %w %s", i, errNegativeAmount, amount)
		}

		typ, err := transaction.ParseType(r.Type)
		if err != nil {
			return nil, fmt.Errorf("decoding snapshot record %d: %w", i, err)
		}

		date, err := transaction.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("decoding snapshot record %d: %w", i, err)
		}

		txs = append(txs, &transaction.Transaction{
			ID:          r.ID,
			Description: r.Description,
			Amount:      amount,
			Date:        date,
			Type:        typ,
			Category:    r.Category,
		})
	}

	return txs, nil
}
