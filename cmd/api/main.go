package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pastel/internal/app"
	"github.com/MrJamesThe3rd/pastel/internal/config"
	pastelHttp "github.com/MrJamesThe3rd/pastel/internal/http"
	dashboardHandler "github.com/MrJamesThe3rd/pastel/internal/http/dashboard"
	exportHandler "github.com/MrJamesThe3rd/pastel/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/pastel/internal/http/statement"
	txHandler "github.com/MrJamesThe3rd/pastel/internal/http/transaction"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(cfg.NewLogger(os.Stderr, cfg.Level()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start application", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	var (
		transactionH = txHandler.NewHandler(a.Transactions)
		dashboardH   = dashboardHandler.NewHandler(a.Transactions)
		importH      = importHandler.NewHandler(a.Importer, a.Transactions, cfg.Parser.Timeout)
		exportH      = exportHandler.NewHandler(a.Export)
	)

	router := pastelHttp.New(cfg.Server.CORSOrigins, transactionH, dashboardH, importH, exportH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Imports wait on the parser, so writes get the parser timeout on top.
		WriteTimeout: cfg.Server.Timeout + cfg.Parser.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("starting server", "name", cfg.App.Name, "addr", srv.Addr, "storage", cfg.Storage.Driver, "parser", cfg.Parser.Provider)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
