package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pastel/internal/summary"
)

func newSummaryCommand(s *session) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals, balance and expenses by category",
		Args:  cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}

			txs := s.app.Transactions.List(cmd.Context(), filter)
			rep := summary.Dashboard(txs)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)

			fmt.Fprintf(w, "Transações\t%d\t\n", len(txs))

			for _, bar := range rep.Flow {
				fmt.Fprintf(w, "%s\t%s\t\n", bar.Label, summary.FormatBRL(bar.Amount))
			}

			fmt.Fprintf(w, "Saldo\t%s\t\n", summary.FormatBRL(rep.Stats.Balance))

			if err := w.Flush(); err != nil {
				return err
			}

			if len(rep.Slices) == 0 {
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "\nDespesas por categoria:")

			w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, slice := range rep.Slices {
				fmt.Fprintf(w, "  %s\t%s\t%s%%\n", slice.Name, summary.FormatBRL(slice.Amount), slice.Percent.StringFixed(2))
			}

			return w.Flush()
		}),
	}

	flags.register(cmd)

	return cmd
}
