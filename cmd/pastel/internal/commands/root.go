// Package commands implements the pastel command line.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pastel/internal/app"
	"github.com/MrJamesThe3rd/pastel/internal/config"
)

// session carries what the root command sets up for its subcommands.
type session struct {
	debug   bool
	envFile string
	cfg     *config.Config
	app     *app.App
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "pastel",
		Short: "Personal finance tracker",
		Long: `pastel records income, expenses and taxes, summarizes them and turns
bank statements into transactions.

Example:
  pastel add --description "Padaria" --amount 15,50 --type expense --category Alimentação
  pastel import --file extrato.txt --provider rules
  pastel summary --from 2023-10-01 --to 2023-10-31`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		PersistentPreRunE: s.setup,
	}

	rootCmd.PersistentFlags().BoolVar(&s.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&s.envFile, "env-file", "", "dotenv file to load (default .env)")

	rootCmd.AddCommand(
		newSummaryCommand(s),
		newListCommand(s),
		newAddCommand(s),
		newRemoveCommand(s),
		newImportCommand(s),
		newExportCommand(s),
	)

	return rootCmd
}

// setup loads the configuration and installs the logger.
func (s *session) setup(*cobra.Command, []string) error {
	if s.envFile != "" {
		if err := godotenv.Load(s.envFile); err != nil {
			return fmt.Errorf("loading %s: %w", s.envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var level slog.Leveler = cfg.Level()
	if s.debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(cfg.NewLogger(os.Stderr, level))

	s.cfg = cfg

	return nil
}

// run opens the application around fn and closes it whether fn fails or not.
func (s *session) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd.Context(), s.cfg)
		if err != nil {
			return err
		}

		s.app = a

		defer func() {
			if err := a.Close(); err != nil {
				slog.Error("failed to close store", "error", err)
			}

			s.app = nil
		}()

		return fn(cmd, args)
	}
}
