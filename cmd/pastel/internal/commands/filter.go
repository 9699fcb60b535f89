package commands

import (
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

type filterFlags struct {
	from     string
	to       string
	typ      string
	category string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "last date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.typ, "type", "", "only INCOME, EXPENSE or TAX")
	cmd.Flags().StringVar(&f.category, "category", "", "only this category")
}

func (f *filterFlags) filter() (transaction.ListFilter, error) {
	var filter transaction.ListFilter

	if f.typ != "" {
		t, err := transaction.ParseType(f.typ)
		if err != nil {
			return filter, err
		}

		filter.Type = new(t)
	}

	if f.category != "" {
		filter.Category = new(f.category)
	}

	if f.from != "" {
		d, err := transaction.ParseDate(f.from)
		if err != nil {
			return filter, err
		}

		filter.StartDate = new(d)
	}

	if f.to != "" {
		d, err := transaction.ParseDate(f.to)
		if err != nil {
			return filter, err
		}

		filter.EndDate = new(d)
	}

	return filter, nil
}
