package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	txHandler "github.com/MrJamesThe3rd/pastel/internal/http/transaction"
	"github.com/MrJamesThe3rd/pastel/internal/summary"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

func newListCommand(s *session) *cobra.Command {
	var (
		flags  filterFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}

			txs := transaction.SortNewestFirst(s.app.Transactions.List(cmd.Context(), filter))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(txHandler.ToResponseList(txs))
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, tx := range txs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					tx.ID, tx.Date.Format("2006-01-02"), tx.Description, summary.SignedBRL(tx.Type, tx.Amount), tx.Category)
			}

			return w.Flush()
		}),
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the transactions as JSON")

	return cmd
}
