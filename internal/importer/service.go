package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/pastel/internal/encoding"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

// Categorizer adjusts candidate categories after parsing, typically from the
// user's own history.
type Categorizer interface {
	Categorize(ctx context.Context, ins []transaction.Input) int
}

type Service struct {
	parsers     map[Provider]Parser
	provider    Provider
	categorizer Categorizer
}

// NewService selects provider among parsers as the default.
func NewService(provider Provider, parsers map[Provider]Parser) (*Service, error) {
	if _, ok := parsers[provider]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	return &Service{parsers: parsers, provider: provider}, nil
}

// UseCategorizer installs c to run on every successful parse.
func (s *Service) UseCategorizer(c Categorizer) {
	s.categorizer = c
}

func (s *Service) Provider() Provider {
	return s.provider
}

// Parse runs the default provider. The result is never partially valid:
// either every candidate passed validation or an *Error is returned.
func (s *Service) Parse(ctx context.Context, text string) ([]transaction.Input, error) {
	return s.ParseWith(ctx, s.provider, text)
}

func (s *Service) ParseWith(ctx context.Context, provider Provider, text string) ([]transaction.Input, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyStatement
	}

	p, ok := s.parsers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	inputs, err := p.Parse(ctx, text)
	if err != nil {
		slog.Error("failed to parse statement", "provider", provider, "error", err)
		return nil, &Error{Provider: provider, Err: err}
	}

	recategorized := 0
	if s.categorizer != nil {
		recategorized = s.categorizer.Categorize(ctx, inputs)
	}

	slog.Info("parsed statement", "provider", provider, "count", len(inputs), "recategorized", recategorized)

	return inputs, nil
}

// ParseReader decodes an uploaded statement file to UTF-8 before parsing it.
func (s *Service) ParseReader(ctx context.Context, r io.Reader) ([]transaction.Input, error) {
	text, err := encoding.ReadText(r)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	return s.Parse(ctx, text)
}
