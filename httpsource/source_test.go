package httpsource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	sorttable "github.com/domonda/go-sorttable"
)

var columns = sorttable.Columns{
	{ID: "images", Title: "Image"},
	{ID: "title", Title: "Name", Sortable: true, Kind: sorttable.Textual},
	{ID: "price", Title: "Price", Sortable: true, Kind: sorttable.Numeric},
}

func products() []sorttable.Record {
	return []sorttable.Record{
		{"id": "p1", "title": "Tablet", "price": 300},
		{"id": "p2", "title": "Phone", "price": 100},
		{"id": "p3", "title": "Laptop", "price": 900},
		{"id": "p4", "title": "Watch", "price": 200},
	}
}

func TestSource_PageURL(t *testing.T) {
	source, err := New("https://course-js.javascript.ru", "api/rest/products?_embed=subcategory.category", nil, nil)
	require.NoError(t, err)

	u := source.PageURL(sorttable.PageRequest{
		Sort:  sorttable.SortState{ColumnID: "price", Direction: sorttable.Descending},
		Start: 30,
		End:   60,
	})
	require.Equal(t, "https://course-js.javascript.ru/api/rest/products?_embed=subcategory.category&_end=60&_order=desc&_sort=price&_start=30", u.String())

	u = source.PageURL(sorttable.PageRequest{Start: 0, End: 30})
	require.Equal(t, "https://course-js.javascript.ru/api/rest/products?_embed=subcategory.category&_end=30&_start=0", u.String())

	_, err = New("", "relative/path", nil, nil)
	require.Error(t, err)
}

func TestSource_LoadPageFromHandler(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(sorttable.NewSliceSource(columns, products()), columns, zaptest.NewLogger(t))
	server := httptest.NewServer(handler)
	defer server.Close()

	source, err := New(server.URL, "/api/products", server.Client(), zaptest.NewLogger(t))
	require.NoError(t, err)

	page, err := source.LoadPage(ctx, sorttable.PageRequest{
		Sort:  sorttable.SortState{ColumnID: "price", Direction: sorttable.Ascending},
		Start: 0,
		End:   3,
	})
	require.NoError(t, err)
	require.Len(t, page, 3)
	require.Equal(t, []string{"p2", "p4", "p1"}, []string{page[0].ID(), page[1].ID(), page[2].ID()})
	require.Equal(t, json.Number("100"), page[0]["price"], "numbers decoded as json.Number")

	page, err = source.LoadPage(ctx, sorttable.PageRequest{Start: 10, End: 20})
	require.NoError(t, err)
	require.NotNil(t, page)
	require.Empty(t, page)

	_, err = source.LoadPage(ctx, sorttable.PageRequest{Sort: sorttable.SortState{ColumnID: "images"}, Start: 0, End: 3})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
}

func TestSource_TableIntegration(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(NewHandler(sorttable.NewSliceSource(columns, products()), columns, nil))
	defer server.Close()
	source, err := New(server.URL, "/", server.Client(), nil)
	require.NoError(t, err)

	table, err := sorttable.New(columns, sorttable.Options{Source: source, PageSize: 2})
	require.NoError(t, err)
	require.NoError(t, table.Init(ctx))
	_, err = table.ClickHeader(ctx, "price")
	require.NoError(t, err)
	n, err := table.OnScroll(ctx, sorttable.ScrollPosition{DocumentHeight: 100, ScrollY: 50, ViewportHeight: 50})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	var ids []string
	for _, r := range table.Records() {
		ids = append(ids, r.ID())
	}
	require.Equal(t, []string{"p3", "p1", "p4", "p2"}, ids)
}

func TestFetchJSON(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bom":
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Write([]byte("\xEF\xBB\xBF{\"2026-10-01\": 5}"))
		case "/unknown-charset":
			w.Header().Set("Content-Type", "application/json; charset=x-no-such-charset")
			w.Write([]byte(`{}`))
		case "/large":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("[" + strings.Repeat(" ", MaxResponseSize) + "]"))
		case "/broken":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{`))
		default:
			http.Error(w, "gone", http.StatusNotFound)
		}
	}))
	defer server.Close()

	fetch := func(path string, dest any) error {
		u, err := ResolveURL(server.URL, path)
		require.NoError(t, err)
		return FetchJSON(ctx, server.Client(), u, dest)
	}

	var series map[string]json.Number
	require.NoError(t, fetch("/bom", &series))
	require.Equal(t, map[string]json.Number{"2026-10-01": "5"}, series)

	require.Error(t, fetch("/unknown-charset", &series))
	require.Error(t, fetch("/broken", &series))
	require.ErrorIs(t, fetch("/large", &series), ErrResponseTooLarge)

	err := fetch("/missing", &series)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	require.Equal(t, "gone", statusErr.Body)
}
