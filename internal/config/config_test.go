package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	sorttable "github.com/domonda/go-sorttable"
	"github.com/domonda/go-sorttable/htmltable"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "sorttable.yaml", `
listen: ":9000"
log_level: debug
table:
  url: api/rest/products
  sort_locally: true
  page_size: 10
  sorted:
    id: price
    order: desc
  columns:
    - id: title
      title: Name
      sortable: true
      sortType: string
    - id: price
      title: Price
      sortable: true
      sortType: number
      format: "%.2f"
data:
  csv: products.csv
charts:
  - name: orders
    label: Orders
    url: api/orders
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Listen)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "api/rest/products", cfg.Table.URL)
	require.True(t, cfg.Table.SortLocally)
	require.Equal(t, 10, cfg.Table.PageSize)
	require.Equal(t, sorttable.SortState{ColumnID: "price", Direction: sorttable.Descending}, cfg.Table.Sorted)
	// Not set in file
	require.Equal(t, htmltable.DefaultRowLinkPrefix, cfg.Table.RowLinkPrefix)
	require.Equal(t, filepath.Join(filepath.Dir(path), "products.csv"), cfg.Data.CSV)
	require.Len(t, cfg.Charts, 1)

	columns, err := cfg.Table.TableColumns()
	require.NoError(t, err)
	require.Equal(t, []string{"title", "price"}, columns.IDs())
	require.Equal(t, sorttable.Numeric, columns[1].Kind)
	require.Equal(t, sorttable.PrintfCellFormatter("%.2f"), columns[1].Formatter)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvListen, ":7000")
	t.Setenv(EnvBackendURL, "https://backend.example.com/")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, ":7000", cfg.Listen)
	require.Equal(t, "https://backend.example.com/", cfg.BackendURL)
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "syntax", content: "table: [\n"},
		{name: "unknown sort type", content: "table:\n  columns:\n    - id: a\n      sortType: date\n"},
		{name: "unknown format", content: "table:\n  columns:\n    - id: a\n      format: bold\n"},
		{name: "sorted by unsortable", content: "table:\n  sorted: {id: images, order: asc}\n"},
		{name: "invalid order", content: "table:\n  sorted: {id: title, order: up}\n"},
		{name: "duplicate column", content: "table:\n  sorted: {}\n  columns:\n    - id: a\n    - id: a\n"},
		{name: "duplicate chart", content: "charts:\n  - {name: a, url: x}\n  - {name: a, url: y}\n"},
		{name: "negative page size", content: "table:\n  page_size: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "sorttable.yaml", tt.content))
			require.Error(t, err)
		})
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sorttable.yaml")
	cfg := Default()
	cfg.Listen = ":1234"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestFormatter(t *testing.T) {
	f, err := Formatter("")
	require.NoError(t, err)
	require.Nil(t, f)

	f, err = Formatter("image")
	require.NoError(t, err)
	require.Equal(t, htmltable.ImageCellFormatter(ImageClass), f)

	f, err = Formatter("%d pcs")
	require.NoError(t, err)
	require.Equal(t, sorttable.PrintfCellFormatter("%d pcs"), f)

	f, err = Formatter("class:warn")
	require.NoError(t, err)
	require.Equal(t, htmltable.HTMLSpanClassCellFormatter("warn"), f)

	f, err = Formatter("html:<b>%v</b>")
	require.NoError(t, err)
	require.Equal(t, sorttable.PrintfRawCellFormatter("<b>%v</b>"), f)

	f, err = Formatter("anchor")
	require.NoError(t, err)
	str, raw, err := f.FormatCell(context.Background(), &sorttable.Cell{Value: "a1"})
	require.NoError(t, err)
	require.True(t, raw)
	require.Equal(t, "<a id='a1'>a1</a>", str)

	for _, name := range []string{"bold", "class:", "html:<b>"} {
		_, err = Formatter(name)
		require.Error(t, err, name)
	}
}
