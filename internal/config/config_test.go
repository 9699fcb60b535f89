package config_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pastel/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Pastel", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "bolt", cfg.Storage.Driver)
	assert.Equal(t, "pastel_finance_transactions", cfg.Storage.Slot)
	assert.Equal(t, "gemini", cfg.Parser.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Parser.Model)
	assert.Equal(t, 2*time.Minute, cfg.Parser.Timeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.SheetsEnabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("API_KEY", "secret")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	t.Setenv("SHEETS_SPREADSHEET_ID", "sheet-id")
	t.Setenv("SHEETS_CREDENTIALS_FILE", "/tmp/sa.json")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "secret", cfg.Parser.APIKey)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.SheetsEnabled())
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("PARSER_TIMEOUT", "soon")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestConfig_Level(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Log.Level = tt.in

			assert.Equal(t, tt.want, cfg.Level())
		})
	}
}

func TestConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer

	cfg := &config.Config{}
	cfg.Log.Format = "json"

	cfg.NewLogger(&buf, slog.LevelInfo).Info("started", "port", 8080)

	assert.Contains(t, buf.String(), `"msg":"started"`)
	assert.Contains(t, buf.String(), `"port":8080`)
}
