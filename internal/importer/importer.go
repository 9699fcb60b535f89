package importer

import (
	"context"
	"errors"

	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

// Provider names a Parser implementation.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
	ProviderRules  Provider = "rules"
)

var (
	ErrNotConfigured   = errors.New("API Key not configured")
	ErrEmptyStatement  = errors.New("statement text is empty")
	ErrInvalidResponse = errors.New("invalid parser response")
	ErrUnknownProvider = errors.New("unknown parser provider")
)

// FailureMessage is shown to users whenever a statement could not be parsed.
const FailureMessage = "Falha ao processar o extrato. Tente novamente ou insira manualmente."

// Parser turns free statement text into transaction candidates. Implementations
// must honor ctx cancellation and return either a fully valid list or an error.
//
//go:generate mockgen -source=importer.go -destination=parser_mock.go -package=importer
type Parser interface {
	Parse(ctx context.Context, text string) ([]transaction.Input, error)
}

// Error wraps any parsing failure with the message presented to the user.
type Error struct {
	Provider Provider
	Err      error
}

func (e *Error) Error() string {
	return "parsing statement with " + string(e.Provider) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the localized text for presentation layers. Configuration
// problems are reported as such, everything else gets the generic retry hint.
func (e *Error) UserMessage() string {
	if errors.Is(e.Err, ErrNotConfigured) {
		return ErrNotConfigured.Error()
	}

	return FailureMessage
}
