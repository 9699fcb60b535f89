// Package app wires the services shared by the HTTP API, the TUI and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/pastel/internal/config"
	"github.com/MrJamesThe3rd/pastel/internal/export"
	"github.com/MrJamesThe3rd/pastel/internal/importer"
	"github.com/MrJamesThe3rd/pastel/internal/importer/gemini"
	"github.com/MrJamesThe3rd/pastel/internal/importer/ollama"
	"github.com/MrJamesThe3rd/pastel/internal/importer/rules"
	"github.com/MrJamesThe3rd/pastel/internal/matching"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
	txStore "github.com/MrJamesThe3rd/pastel/internal/transaction/store"
)

type App struct {
	Config       *config.Config
	Transactions *transaction.Service
	Importer     *importer.Service
	Export       *export.Service

	store *txStore.Store
}

// New opens the configured store, loads the persisted collection and builds
// the services on top of it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := txStore.Open(cfg.Storage.Driver, cfg.Storage.Path, cfg.Storage.Slot)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	txSvc := transaction.NewService(store)
	loaded := txSvc.Load(ctx)

	slog.Debug("loaded transactions", "driver", cfg.Storage.Driver, "count", len(loaded))

	importSvc, err := importer.NewService(importer.Provider(cfg.Parser.Provider), Parsers(cfg))
	if err != nil {
		store.Close()
		return nil, err
	}

	importSvc.UseCategorizer(matching.NewService(txSvc))

	var sheets export.SheetAppender

	if cfg.SheetsEnabled() {
		sink, err := export.NewSheetsSink(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.Range, cfg.Sheets.CredentialsFile)
		if err != nil {
			slog.Warn("google sheets export disabled", "error", err)
		} else {
			sheets = sink
		}
	}

	return &App{
		Config:       cfg,
		Transactions: txSvc,
		Importer:     importSvc,
		Export:       export.NewService(txSvc, sheets),
		store:        store,
	}, nil
}

// Parsers builds every statement parser from cfg.
func Parsers(cfg *config.Config) map[importer.Provider]importer.Parser {
	return map[importer.Provider]importer.Parser{
		importer.ProviderGemini: gemini.New(gemini.Config{
			APIKey:  cfg.Parser.APIKey,
			Model:   cfg.Parser.Model,
			BaseURL: cfg.Parser.BaseURL,
		}),
		importer.ProviderOllama: ollama.New(cfg.Ollama.URL, cfg.Ollama.Model, nil),
		importer.ProviderRules:  rules.New(),
	}
}

// ParseContext bounds a single statement parse by the configured timeout.
func (a *App) ParseContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.Config.Parser.Timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, a.Config.Parser.Timeout)
}

func (a *App) Close() error {
	return a.store.Close()
}
