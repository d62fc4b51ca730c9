package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	sorttable "github.com/domonda/go-sorttable"
)

const testCSV = "id;images;title;quantity;price;sales\r\n" +
	"p1;/a.jpg;Apple;3;1.5;10\r\n" +
	"p2;/b.jpg;Banana;7;0.5;30\r\n" +
	"p3;/c.jpg;Cherry;1;4;20\r\n"

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestRender(t *testing.T) {
	csvFile := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(csvFile, []byte(testCSV), 0o600))

	out := execute(t, "render", csvFile, "--sort", "sales:desc", "--output", "csv")
	require.Equal(t, ""+
		"images;title;quantity;price;sales\r\n"+
		"/b.jpg;Banana;7;0.5;30\r\n"+
		"/c.jpg;Cherry;1;4;20\r\n"+
		"/a.jpg;Apple;3;1.5;10\r\n",
		out,
	)

	out = execute(t, "render", csvFile, "--sort", "price", "--output", "html")
	require.Contains(t, out, `<div class='sortable-table'>`)
	require.Contains(t, out, `data-id="price" data-sortable="true" data-order="asc"`)
	require.Contains(t, out, `<img class="sortable-table-image" alt="Image" src="/a.jpg">`)
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	csvFile := filepath.Join(dir, "products.csv")
	require.NoError(t, os.WriteFile(csvFile, []byte(testCSV), 0o600))

	execute(t, "import", csvFile, filepath.Join(dir, "products.db"), "--table", "items")
	require.FileExists(t, filepath.Join(dir, "products.db"))
}

func TestParseSort(t *testing.T) {
	s, err := parseSort("price:desc")
	require.NoError(t, err)
	require.Equal(t, sorttable.SortState{ColumnID: "price", Direction: sorttable.Descending}, s)

	s, err = parseSort("title")
	require.NoError(t, err)
	require.Equal(t, sorttable.SortState{ColumnID: "title", Direction: sorttable.Ascending}, s)

	_, err = parseSort("title:up")
	require.Error(t, err)
}
