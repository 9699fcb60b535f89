package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pastel/internal/encoding"
	"github.com/MrJamesThe3rd/pastel/internal/importer"
	"github.com/MrJamesThe3rd/pastel/internal/summary"
)

// ErrStdinNeedsYes is returned when the statement is piped in without --yes:
// stdin is already consumed, so the confirmation prompt could never be answered.
var ErrStdinNeedsYes = errors.New("statement read from standard input requires --yes")

func newImportCommand(s *session) *cobra.Command {
	var (
		file     string
		text     string
		provider string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Turn a bank statement into transactions",
		Long: `Parse a statement with the configured provider, show the candidates and
store them after confirmation. The statement is read from --file, --text or
standard input. Standard input also answers the confirmation, so a piped
statement needs --yes:

  pastel import --yes < extrato.txt`,
		Args: cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, _ []string) error {
			if file == "" && text == "" && !yes {
				return ErrStdinNeedsYes
			}

			stmt, err := readStatement(cmd.InOrStdin(), file, text)
			if err != nil {
				return err
			}

			p := s.app.Importer.Provider()
			if provider != "" {
				p = importer.Provider(provider)
			}

			ctx, cancel := s.app.ParseContext(cmd.Context())
			defer cancel()

			inputs, err := s.app.Importer.ParseWith(ctx, p, stmt)
			if err != nil {
				var parseErr *importer.Error
				if errors.As(err, &parseErr) {
					return errors.New(parseErr.UserMessage())
				}

				return err
			}

			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%d transações encontradas:\n", len(inputs))

			for _, in := range inputs {
				fmt.Fprintf(out, "* %s | %s | %s | %s\n",
					in.Date.Format("2006-01-02"), in.Description, summary.SignedBRL(in.Type, in.Amount), in.Category)
			}

			if !yes && !confirm(cmd, fmt.Sprintf("Importar %d transações? [s/N] ", len(inputs))) {
				fmt.Fprintln(out, "Nada foi importado.")
				return nil
			}

			txs := s.app.Transactions.AddBatch(cmd.Context(), inputs)
			fmt.Fprintf(out, "%d transações importadas.\n", len(txs))

			return nil
		}),
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "statement file (.txt or .csv)")
	cmd.Flags().StringVar(&text, "text", "", "statement text")
	cmd.Flags().StringVarP(&provider, "provider", "p", "", "gemini, ollama or rules (default from PARSER_PROVIDER)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "store without asking")
	cmd.MarkFlagsMutuallyExclusive("file", "text")

	return cmd
}

func readStatement(stdin io.Reader, file, text string) (string, error) {
	switch {
	case text != "":
		return text, nil
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return "", err
		}
		defer f.Close()

		return encoding.ReadText(f)
	}

	return encoding.ReadText(stdin)
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)

	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "sim", "y", "yes":
		return true
	}

	return false
}
