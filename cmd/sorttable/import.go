package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // database/sql driver "sqlite"

	"github.com/domonda/go-sorttable/csvtable"
	"github.com/domonda/go-sorttable/sqltable"
)

var importTable string

// importCmd imports a CSV file into a SQLite database
var importCmd = &cobra.Command{
	Use:   "import [csv-file] [sqlite-file]",
	Short: "Import a CSV file as SQLite table",
	Long: `Creates a table in a SQLite database file with the configured
columns and inserts the records of a CSV file.
Configure data.sqlite to serve the table.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		columns, err := cfg.Table.TableColumns()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		records, err := csvtable.ReadRecords(data, nil, columns)
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		db, err := sql.Open("sqlite", args[1])
		if err != nil {
			return err
		}
		defer db.Close()

		err = sqltable.CreateTable(cmd.Context(), db, importTable, columns, records)
		if err != nil {
			return err
		}
		logger.Info("imported records",
			zap.String("file", args[1]),
			zap.String("table", importTable),
			zap.Int("records", len(records)),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importTable, "table", "t", "products", "Name of the created table")
}
