package transaction

import (
	"encoding/json"

	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

// Response is the wire shape of a stored transaction.
type Response struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Amount      json.Number      `json:"amount"`
	Date        string           `json:"date"`
	Type        transaction.Type `json:"type"`
	Category    string           `json:"category"`
}

// Candidate is a transaction that has not been stored yet.
type Candidate struct {
	Description string           `json:"description"`
	Amount      json.Number      `json:"amount"`
	Date        string           `json:"date"`
	Type        transaction.Type `json:"type"`
	Category    string           `json:"category"`
}

func ToResponse(tx *transaction.Transaction) Response {
	return Response{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      json.Number(tx.Amount.StringFixed(2)),
		Date:        tx.Date.Format("2006-01-02"),
		Type:        tx.Type,
		Category:    tx.Category,
	}
}

func ToResponseList(txs []*transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}

func ToCandidate(in transaction.Input) Candidate {
	return Candidate{
		Description: in.Description,
		Amount:      json.Number(in.Amount.StringFixed(2)),
		Date:        in.Date.Format("2006-01-02"),
		Type:        in.Type,
		Category:    in.Category,
	}
}

func ToCandidateList(ins []transaction.Input) []Candidate {
	resp := make([]Candidate, len(ins))
	for i, in := range ins {
		resp[i] = ToCandidate(in)
	}

	return resp
}
