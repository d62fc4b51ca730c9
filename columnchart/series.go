package columnchart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/domonda/go-sorttable/httpsource"
)

// Series is a sequence of chart values ordered by key.
type Series struct {
	Keys   []string  `json:"keys"`
	Values []float64 `json:"values"`
}

// SeriesFromMap returns the values of m as Series ordered by key.
// Keys are expected to be sortable as strings like ISO dates.
func SeriesFromMap(m map[string]float64) Series {
	s := Series{
		Keys:   make([]string, 0, len(m)),
		Values: make([]float64, 0, len(m)),
	}
	for key := range m {
		s.Keys = append(s.Keys, key)
	}
	slices.Sort(s.Keys)
	for _, key := range s.Keys {
		s.Values = append(s.Values, m[key])
	}
	return s
}

// Sum returns the sum of all values.
func (s Series) Sum() float64 {
	var sum float64
	for _, v := range s.Values {
		sum += v
	}
	return sum
}

// Max returns the largest value or zero for an empty series.
func (s Series) Max() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return slices.Max(s.Values)
}

// Loader loads the series of a chart for a date range.
type Loader interface {
	LoadSeries(ctx context.Context, from, to time.Time) (Series, error)
}

// LoaderFunc implements Loader for a function.
type LoaderFunc func(ctx context.Context, from, to time.Time) (Series, error)

func (f LoaderFunc) LoadSeries(ctx context.Context, from, to time.Time) (Series, error) {
	return f(ctx, from, to)
}

// Query parameter names of the series endpoint contract.
const (
	ParamFrom = "from"
	ParamTo   = "to"
)

var _ Loader = new(HTTPLoader)

// HTTPLoader loads series from an endpoint responding
// with a JSON object of numeric values by date key.
// The range is passed as ISO 8601 timestamps
// in the "from" and "to" query parameters.
type HTTPLoader struct {
	url    *url.URL
	client *http.Client
	logger *zap.Logger
}

// NewHTTPLoader returns a HTTPLoader for the endpoint path resolved against baseURL.
// A nil client uses http.DefaultClient
// and a nil logger disables logging.
func NewHTTPLoader(baseURL, path string, client *http.Client, logger *zap.Logger) (*HTTPLoader, error) {
	u, err := httpsource.ResolveURL(baseURL, path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPLoader{url: u, client: client, logger: logger}, nil
}

// SeriesURL returns the endpoint URL with the range parameters.
func (l *HTTPLoader) SeriesURL(from, to time.Time) *url.URL {
	u := *l.url
	query := u.Query()
	query.Set(ParamFrom, from.UTC().Format(time.RFC3339Nano))
	query.Set(ParamTo, to.UTC().Format(time.RFC3339Nano))
	u.RawQuery = query.Encode()
	return &u
}

// LoadSeries implements Loader.
func (l *HTTPLoader) LoadSeries(ctx context.Context, from, to time.Time) (Series, error) {
	u := l.SeriesURL(from, to)
	var data map[string]json.Number
	err := httpsource.FetchJSON(ctx, l.client, u, &data)
	if err != nil {
		l.logger.Warn("fetching series failed", zap.Stringer("url", u), zap.Error(err))
		return Series{}, err
	}
	m := make(map[string]float64, len(data))
	for key, num := range data {
		m[key], err = num.Float64()
		if err != nil {
			return Series{}, fmt.Errorf("GET %s: value of %q: %w", u, key, err)
		}
	}
	l.logger.Debug("fetched series", zap.Stringer("url", u), zap.Int("values", len(m)))
	return SeriesFromMap(m), nil
}
