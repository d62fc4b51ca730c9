package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	sorttable "github.com/domonda/go-sorttable"
	"github.com/domonda/go-sorttable/csvtable"
	"github.com/domonda/go-sorttable/htmltable"
)

var (
	renderSort   string
	renderOutput string
)

// renderCmd renders a CSV file as sorted table
var renderCmd = &cobra.Command{
	Use:   "render [csv-file]",
	Short: "Render a CSV file as sorted HTML or CSV table",
	Long: `Reads a CSV file with a header row of column ids,
sorts it with the configured table columns and writes
the table markup or the sorted CSV to stdout.

Example:
  sorttable render products.csv --sort price:desc`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		columns, err := cfg.Table.TableColumns()
		if err != nil {
			return err
		}
		sorted := cfg.Table.Sorted
		if renderSort != "" {
			sorted, err = parseSort(renderSort)
			if err != nil {
				return err
			}
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		records, err := csvtable.ReadRecords(data, nil, columns)
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		element := htmltable.NewElement(htmltable.NewRenderer().WithRowLinkPrefix(cfg.Table.RowLinkPrefix))
		table, err := sorttable.New(columns, sorttable.Options{
			Records: records,
			Sorted:  sorted,
			View:    element,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		defer table.Destroy()
		err = table.Init(cmd.Context())
		if err != nil {
			return err
		}

		switch renderOutput {
		case "html":
			_, err = element.WriteTo(cmd.OutOrStdout())
			if err == nil {
				_, err = fmt.Fprintln(cmd.OutOrStdout())
			}
			return err
		case "csv":
			return csvtable.NewWriter().WriteRecords(cmd.Context(), cmd.OutOrStdout(), plainColumns(columns), table.Records())
		}
		return fmt.Errorf("invalid output %q", renderOutput)
	},
}

// plainColumns returns the columns without formatters
// as they format cells as HTML.
func plainColumns(columns sorttable.Columns) sorttable.Columns {
	plain := slices.Clone(columns)
	for i := range plain {
		plain[i].Formatter = nil
	}
	return plain
}

// parseSort parses "column" or "column:asc|desc".
func parseSort(s string) (sorttable.SortState, error) {
	id, order, _ := strings.Cut(s, ":")
	direction, err := sorttable.ParseDirection(order)
	if err != nil {
		return sorttable.SortState{}, err
	}
	return sorttable.SortState{ColumnID: id, Direction: direction}, nil
}

func init() {
	renderCmd.Flags().StringVarP(&renderSort, "sort", "s", "", "Sort column with optional :asc or :desc, defaults to the configured sort")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "html", "Output format: html or csv")
}
