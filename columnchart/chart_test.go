package columnchart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func staticLoader(m map[string]float64) Loader {
	return LoaderFunc(func(ctx context.Context, from, to time.Time) (Series, error) {
		return SeriesFromMap(m), nil
	})
}

func TestBars(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		height int
		want   []Bar
	}{
		{
			name:   "empty",
			values: nil,
			height: 50,
			want:   []Bar{},
		},
		{
			name:   "scaled",
			values: []float64{10, 20, 40},
			height: 50,
			want: []Bar{
				{Value: 12, Tooltip: "25%"},
				{Value: 25, Tooltip: "50%"},
				{Value: 50, Tooltip: "100%"},
			},
		},
		{
			name:   "rounded percent",
			values: []float64{1, 3},
			height: 50,
			want: []Bar{
				{Value: 16, Tooltip: "33%"},
				{Value: 50, Tooltip: "100%"},
			},
		},
		{
			name:   "all zero",
			values: []float64{0, 0},
			height: 50,
			want:   []Bar{{Value: 0, Tooltip: "0%"}, {Value: 0, Tooltip: "0%"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Bars(tt.values, tt.height))
		})
	}
}

func TestSeriesFromMap(t *testing.T) {
	s := SeriesFromMap(map[string]float64{
		"2024-03-02": 5,
		"2024-03-01": 1,
		"2024-03-03": 2,
	})
	require.Equal(t, []string{"2024-03-01", "2024-03-02", "2024-03-03"}, s.Keys)
	require.Equal(t, []float64{1, 5, 2}, s.Values)
	require.Equal(t, 8.0, s.Sum())
	require.Equal(t, 5.0, s.Max())
	require.Zero(t, Series{}.Max())
}

func TestChart_Render(t *testing.T) {
	chart := New(
		staticLoader(map[string]float64{"2024-03-01": 10, "2024-03-02": 40}),
		Options{Label: "sales", Link: "/sales", FormatHeading: FormatDollars},
	)
	require.True(t, chart.Loading())

	loading, err := chart.Render()
	require.NoError(t, err)
	require.Contains(t, string(loading), `class="column-chart column-chart_loading"`)

	require.NoError(t, chart.Init(context.Background()))
	require.False(t, chart.Loading())

	html, err := chart.Render()
	require.NoError(t, err)
	require.Equal(t, ""+
		`<div class="column-chart" style="--chart-height: 50">`+"\n"+
		`  <div class="column-chart__title">sales <a href="/sales" class="column-chart__link">View all</a></div>`+"\n"+
		`  <div class="column-chart__container">`+"\n"+
		`    <div data-element="header" class="column-chart__header">$50</div>`+"\n"+
		`    <div data-element="body" class="column-chart__chart">`+
		`<div style="--value: 12" data-tooltip="25%"></div>`+
		`<div style="--value: 50" data-tooltip="100%"></div>`+
		`</div>`+"\n"+
		`  </div>`+"\n"+
		`</div>`,
		string(html),
	)
}

func TestChart_NoLink(t *testing.T) {
	chart := New(staticLoader(nil), Options{Label: "orders"})
	require.NoError(t, chart.Init(context.Background()))
	html, err := chart.Render()
	require.NoError(t, err)
	require.NotContains(t, string(html), "View all")
	require.Contains(t, string(html), `class="column-chart__header">0</div>`)
}

func TestChart_Update(t *testing.T) {
	var calls int
	loader := LoaderFunc(func(ctx context.Context, from, to time.Time) (Series, error) {
		calls++
		if calls > 1 {
			return Series{}, errors.New("backend down")
		}
		return SeriesFromMap(map[string]float64{from.Format(time.DateOnly): 1}), nil
	})
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	chart := New(loader, Options{Logger: zaptest.NewLogger(t)})

	series, err := chart.Update(context.Background(), from, to)
	require.NoError(t, err)
	require.Equal(t, []string{"2024-01-01"}, series.Keys)
	gotFrom, gotTo := chart.Range()
	require.Equal(t, from, gotFrom)
	require.Equal(t, to, gotTo)

	_, err = chart.Update(context.Background(), to, to.AddDate(0, 1, 0))
	require.ErrorContains(t, err, "backend down")
	require.False(t, chart.Loading())
	require.Equal(t, series, chart.Series())
	gotFrom, _ = chart.Range()
	require.Equal(t, from, gotFrom)

	_, err = chart.Update(context.Background(), to, from)
	require.Error(t, err)
	require.Equal(t, 2, calls)
}

func TestNew_DefaultRange(t *testing.T) {
	to := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	chart := New(staticLoader(nil), Options{To: to})
	from, gotTo := chart.Range()
	require.Equal(t, to, gotTo)
	require.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), from)
}

func TestHTTPLoader(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dashboard/orders" {
			http.NotFound(w, r)
			return
		}
		require.Equal(t, "2024-01-01T00:00:00Z", r.URL.Query().Get(ParamFrom))
		require.Equal(t, "2024-02-01T00:00:00Z", r.URL.Query().Get(ParamTo))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"2024-01-02": 7, "2024-01-01": 3.5}`)
	}))
	defer server.Close()

	loader, err := NewHTTPLoader(server.URL, "api/dashboard/orders", server.Client(), zaptest.NewLogger(t))
	require.NoError(t, err)
	series, err := loader.LoadSeries(context.Background(), from, to)
	require.NoError(t, err)
	require.Equal(t, Series{Keys: []string{"2024-01-01", "2024-01-02"}, Values: []float64{3.5, 7}}, series)

	missing, err := NewHTTPLoader(server.URL, "/api/dashboard/missing", server.Client(), nil)
	require.NoError(t, err)
	_, err = missing.LoadSeries(context.Background(), from, to)
	require.Error(t, err)
}
