package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

// candidate mirrors one item of the model output. Pointers distinguish a
// missing field from a zero value.
type candidate struct {
	Description *string      `json:"description"`
	Amount      *json.Number `json:"amount"`
	Date        *string      `json:"date"`
	Type        *string      `json:"type"`
	Category    *string      `json:"category"`
}

// DecodeCandidates validates raw model output. It accepts either
// {"transactions":[...]} or a bare array, optionally inside a markdown code
// fence. Any invalid record rejects the whole response.
func DecodeCandidates(raw []byte) ([]transaction.Input, error) {
	raw = stripFence(bytes.TrimSpace(raw))
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrInvalidResponse)
	}

	var items []candidate

	if raw[0] == '[' {
		if err := unmarshal(raw, &items); err != nil {
			return nil, err
		}
	} else {
		var wrapper struct {
			Transactions *[]candidate `json:"transactions"`
		}

		if err := unmarshal(raw, &wrapper); err != nil {
			return nil, err
		}

		if wrapper.Transactions == nil {
			return nil, fmt.Errorf("%w: missing transactions field", ErrInvalidResponse)
		}

		items = *wrapper.Transactions
	}

	inputs := make([]transaction.Input, 0, len(items))

	for i, c := range items {
		in, err := c.toInput()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrInvalidResponse, i, err)
		}

		inputs = append(inputs, in)
	}

	return inputs, nil
}

func (c candidate) toInput() (transaction.Input, error) {
	if c.Description == nil || c.Amount == nil || c.Date == nil || c.Type == nil || c.Category == nil {
		return transaction.Input{}, errors.New("missing field")
	}

	amount, err := decimal.NewFromString(c.Amount.String())
	if err != nil {
		return transaction.Input{}, fmt.Errorf("amount %q is not a number", c.Amount.String())
	}

	date, err := transaction.ParseDate(*c.Date)
	if err != nil {
		return transaction.Input{}, err
	}

	typ, err := transaction.ParseType(*c.Type)
	if err != nil {
		return transaction.Input{}, err
	}

	in := transaction.Input{
		Description: *c.Description,
		Amount:      amount.Abs(),
		Date:        date,
		Type:        typ,
		Category:    *c.Category,
	}

	return in, in.Validate()
}

func unmarshal(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	return nil
}

func stripFence(raw []byte) []byte {
	if !bytes.HasPrefix(raw, []byte("```")) {
		return raw
	}

	raw = bytes.TrimPrefix(raw, []byte("```"))
	raw = bytes.TrimPrefix(raw, []byte("json"))
	raw = bytes.TrimSuffix(bytes.TrimSpace(raw), []byte("```"))

	return bytes.TrimSpace(raw)
}
