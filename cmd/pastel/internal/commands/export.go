package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pastel/internal/export"
)

func newExportCommand(s *session) *cobra.Command {
	var (
		flags  filterFlags
		out    string
		sheets bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write transactions to a spreadsheet",
		Long: `Write the transactions to an .xlsx or .csv file, chosen by the extension
of --out, or append them to the configured Google Sheets spreadsheet.`,
		Args: cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}

			if sheets {
				ref, err := s.app.Export.AppendToSheets(cmd.Context(), filter)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "appended to %s\n", ref)

				return nil
			}

			if err := s.app.Export.SaveFile(cmd.Context(), filter, out); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)

			return nil
		}),
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", export.BaseFilename+"."+string(export.FormatXLSX), "output file, .xlsx or .csv")
	cmd.Flags().BoolVar(&sheets, "sheets", false, "append to Google Sheets instead of writing a file")

	return cmd
}
