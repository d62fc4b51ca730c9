package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // database/sql driver "sqlite"

	sorttable "github.com/domonda/go-sorttable"
	"github.com/domonda/go-sorttable/csvtable"
	"github.com/domonda/go-sorttable/internal/config"
	"github.com/domonda/go-sorttable/sqltable"
)

// OpenLoader returns the PageLoader for the configured data
// and a function to release it.
// Without configured data the SampleRecords are used.
func OpenLoader(ctx context.Context, data config.DataConfig, columns sorttable.Columns, logger *zap.Logger) (loader sorttable.PageLoader, closeFunc func() error, err error) {
	nop := func() error { return nil }
	switch {
	case data.SQLite != "":
		if _, err := os.Stat(data.SQLite); err != nil {
			return nil, nil, err
		}
		db, err := sql.Open("sqlite", data.SQLite)
		if err != nil {
			return nil, nil, err
		}
		if err = db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("open %s: %w", data.SQLite, err)
		}
		source, err := sqltable.NewSource(db, data.SQLiteTable, columns, logger)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("serving SQLite table", zap.String("file", data.SQLite), zap.String("table", data.SQLiteTable))
		return source, db.Close, nil

	case data.CSV != "":
		csv, err := os.ReadFile(data.CSV)
		if err != nil {
			return nil, nil, err
		}
		records, err := csvtable.ReadRecords(csv, nil, columns)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", data.CSV, err)
		}
		logger.Info("serving CSV file", zap.String("file", data.CSV), zap.Int("records", len(records)))
		return sorttable.NewSliceSource(columns, records), nop, nil
	}
	records := SampleRecords()
	logger.Info("serving sample records", zap.Int("records", len(records)))
	return sorttable.NewSliceSource(columns, records), nop, nil
}

var sampleProducts = []string{
	"Wireless mouse",
	"Mechanical keyboard",
	"USB-C hub",
	"Monitor 27\"",
	"Laptop stand",
	"Webcam",
	"Headphones",
	"Desk lamp",
	"Ноутбук",
}

type sampleProduct struct {
	ID       string   `col:"id"`
	Images   []string `col:"images"`
	Title    string   `col:"title"`
	Quantity int      `col:"quantity"`
	Price    float64  `col:"price"`
	Sales    int      `col:"sales"`
}

// SampleRecords returns deterministic product records
// with the columns of the default configuration.
func SampleRecords() []sorttable.Record {
	const count = 75
	products := make([]sampleProduct, count)
	for i := range products {
		id := fmt.Sprintf("product-%03d", i+1)
		products[i] = sampleProduct{
			ID:       id,
			Images:   []string{"/images/" + id + ".jpg"},
			Title:    fmt.Sprintf("%s %d", sampleProducts[i%len(sampleProducts)], i/len(sampleProducts)+1),
			Quantity: (i*37)%100 + 1,
			Price:    float64((i*53)%500) + 9.99,
			Sales:    (i * 29) % 61,
		}
	}
	records, err := sorttable.StructRecords(products, nil)
	if err != nil {
		panic(err) // sampleProduct is a struct
	}
	return records
}
