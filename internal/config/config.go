package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Pastel"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}

	Storage struct {
		Driver string `envconfig:"STORAGE_DRIVER" default:"bolt"`
		Path   string `envconfig:"STORAGE_PATH" default:"pastel.db"`
		Slot   string `envconfig:"STORAGE_SLOT" default:"pastel_finance_transactions"`
	}

	Parser struct {
		Provider string        `envconfig:"PARSER_PROVIDER" default:"gemini"`
		APIKey   string        `envconfig:"API_KEY"`
		Model    string        `envconfig:"PARSER_MODEL" default:"gemini-2.5-flash"`
		BaseURL  string        `envconfig:"PARSER_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai"`
		Timeout  time.Duration `envconfig:"PARSER_TIMEOUT" default:"2m"`
	}

	Ollama struct {
		URL   string `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
		Model string `envconfig:"OLLAMA_MODEL" default:"llama3.1"`
	}

	Sheets struct {
		SpreadsheetID   string `envconfig:"SHEETS_SPREADSHEET_ID"`
		CredentialsFile string `envconfig:"SHEETS_CREDENTIALS_FILE"`
		Range           string `envconfig:"SHEETS_RANGE" default:"Finanças!A1"`
	}
}

// SheetsEnabled reports whether a spreadsheet export target is configured.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsFile != ""
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// Level maps LOG_LEVEL to a slog level. Unknown values fall back to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	return slog.LevelInfo
}

// NewLogger builds the process logger writing to w.
func (c *Config) NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
