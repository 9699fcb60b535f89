package importer

import (
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

const promptTemplate = `Analyze the following bank statement text or list of transactions.
Extract each transaction with its date, description, amount, and determine if it is an INCOME, EXPENSE, or TAX.
Also assign a short, generic category (e.g., Alimentação, Transporte, Salário, Serviços, Impostos).

Rules:
- If the amount is negative in the text (e.g., -50.00), it is likely an EXPENSE or TAX.
- If the amount is positive, check context to see if it's credit (INCOME) or just a listed expense.
- Convert all amounts to positive absolute numbers for the JSON.
- Format dates as YYYY-MM-DD.

Respond with a JSON object of the form {"transactions":[...]}.

Text to parse:
%s
`

// BuildPrompt embeds the statement text in the classification instructions.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

// ResponseSchema is the JSON schema the language model is asked to follow.
func ResponseSchema() jsonschema.Definition {
	types := make([]string, len(transaction.Types))
	for i, t := range transaction.Types {
		types[i] = string(t)
	}

	item := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"description": {Type: jsonschema.String},
			"amount":      {Type: jsonschema.Number},
			"date":        {Type: jsonschema.String, Description: "YYYY-MM-DD"},
			"type":        {Type: jsonschema.String, Enum: types},
			"category":    {Type: jsonschema.String},
		},
		Required:             []string{"description", "amount", "date", "type", "category"},
		AdditionalProperties: false,
	}

	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"transactions": {Type: jsonschema.Array, Items: &item},
		},
		Required:             []string{"transactions"},
		AdditionalProperties: false,
	}
}
