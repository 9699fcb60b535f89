package rules

import (
	"slices"
	"strings"
	"unicode"

	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

const (
	defaultCategory = "Outros"
	taxCategory     = "Impostos"
)

var taxKeywords = []string{"imposto", "iof", "irrf", "iss", "taxa", "tarifa"}

// categoryKeywords is scanned in order; the first matching keyword wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Salário", []string{"salário", "salario", "folha", "pró-labore", "pro-labore"}},
	{"Transporte", []string{"uber", "taxi", "táxi", "metrô", "metro", "ônibus", "onibus", "combustível", "combustivel", "posto", "estacionamento"}},
	{"Alimentação", []string{"padaria", "mercado", "supermercado", "hipermercado", "restaurante", "ifood", "lanchonete", "café", "cafe", "pizzaria", "açougue"}},
	{"Moradia", []string{"aluguel", "condomínio", "condominio", "energia", "luz", "água", "sabesp"}},
	{"Saúde", []string{"farmácia", "farmacia", "drogaria", "hospital", "clínica", "clinica", "laboratório"}},
	{"Serviços", []string{"internet", "telefone", "celular", "netflix", "spotify", "assinatura"}},
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isTax(description string) bool {
	for _, w := range words(description) {
		if slices.Contains(taxKeywords, w) {
			return true
		}
	}

	return false
}

// classify derives the type from the sign and the description.
func classify(description string, negative bool) transaction.Type {
	switch {
	case !negative:
		return transaction.TypeIncome
	case isTax(description):
		return transaction.TypeTax
	default:
		return transaction.TypeExpense
	}
}

func categorize(description string, t transaction.Type) string {
	if t == transaction.TypeTax {
		return taxCategory
	}

	desc := words(description)

	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if containsPhrase(desc, words(kw)) {
				return c.category
			}
		}
	}

	return defaultCategory
}

// containsPhrase reports whether phrase appears in desc as consecutive words.
func containsPhrase(desc, phrase []string) bool {
	if len(phrase) == 0 {
		return false
	}

	for i := 0; i+len(phrase) <= len(desc); i++ {
		if slices.Equal(desc[i:i+len(phrase)], phrase) {
			return true
		}
	}

	return false
}
