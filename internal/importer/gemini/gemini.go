// Package gemini parses statements with Google Gemini through its
// OpenAI-compatible chat completions endpoint.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/MrJamesThe3rd/pastel/internal/importer"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
)

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

type Parser struct {
	client *openai.Client
	model  string
}

// New returns a Parser. A missing API key is not an error here; every Parse
// call reports importer.ErrNotConfigured instead so the rest of the
// application keeps working.
func New(cfg Config) *Parser {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.APIKey == "" {
		return &Parser{model: cfg.Model}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	return &Parser{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func (p *Parser) Parse(ctx context.Context, text string) ([]transaction.Input, error) {
	if p.client == nil {
		return nil, importer.ErrNotConfigured
	}

	schema := importer.ResponseSchema()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: importer.BuildPrompt(text)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "bank_statement",
				Schema: &schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("gemini API error %d: %w", apiErr.HTTPStatusCode, err)
		}

		return nil, fmt.Errorf("calling gemini: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", importer.ErrInvalidResponse)
	}

	return importer.DecodeCandidates([]byte(resp.Choices[0].Message.Content))
}
