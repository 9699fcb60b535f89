package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pastel/internal/summary"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

func newAddCommand(s *session) *cobra.Command {
	var description, amount, date, typ, category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, _ []string) error {
			value, err := transaction.ParseAmount(amount)
			if err != nil {
				return err
			}

			d := transaction.DateOnly(time.Now())
			if date != "" {
				if d, err = transaction.ParseDate(date); err != nil {
					return err
				}
			}

			t, err := transaction.ParseType(typ)
			if err != nil {
				return err
			}

			in := transaction.Input{
				Description: description,
				Amount:      value,
				Date:        d,
				Type:        t,
				Category:    category,
			}

			if err := in.Validate(); err != nil {
				return err
			}

			tx := s.app.Transactions.Add(cmd.Context(), in)

			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %s\n",
				tx.ID, tx.Description, summary.SignedBRL(tx.Type, tx.Amount), tx.Category)

			return nil
		}),
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "what the money was for")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount, e.g. 25,90 or 25.90")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&typ, "type", "t", string(transaction.TypeExpense), "INCOME, EXPENSE or TAX")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")

	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newRemoveCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete transactions by id",
		Args:    cobra.MinimumNArgs(1),
		RunE: s.run(func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if _, err := s.app.Transactions.Get(cmd.Context(), id); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", id, err)
					continue
				}

				s.app.Transactions.Remove(cmd.Context(), id)
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
			}

			return nil
		}),
	}
}
