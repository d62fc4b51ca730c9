// Package columnchart renders column charts of value series
// loaded for a date range.
package columnchart

import (
	"context"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultHeight of a chart in pixels.
const DefaultHeight = 50

var (
	// ChartTemplate renders a chart from a ChartTemplateContext.
	ChartTemplate = template.Must(template.New("chart").Parse("" +
		`<div class="column-chart{{if .Loading}} column-chart_loading{{end}}" style="--chart-height: {{.Height}}">` + "\n" +
		`  <div class="column-chart__title">{{.Label}}{{if .Link}} <a href="{{.Link}}" class="column-chart__link">View all</a>{{end}}</div>` + "\n" +
		`  <div class="column-chart__container">` + "\n" +
		`    <div data-element="header" class="column-chart__header">{{.Heading}}</div>` + "\n" +
		`    <div data-element="body" class="column-chart__chart">` +
		`{{range .Bars}}<div style="--value: {{.Value}}" data-tooltip="{{.Tooltip}}"></div>{{end}}` +
		`</div>` + "\n" +
		`  </div>` + "\n" +
		`</div>`,
	))
)

// ChartTemplateContext is passed to ChartTemplate.
type ChartTemplateContext struct {
	Label   string
	Link    string
	Height  int
	Heading string
	Bars    []Bar
	Loading bool
}

// Bar is one column of a chart.
type Bar struct {
	// Value is the height of the bar in pixels.
	Value int
	// Tooltip is the value as rounded percentage of the maximum.
	Tooltip string
}

// Bars scales values to bars of a chart with height.
// The largest value gets the full height.
// If no value is greater than zero all bars have zero height.
func Bars(values []float64, height int) []Bar {
	maxValue := Series{Values: values}.Max()
	bars := make([]Bar, len(values))
	if maxValue <= 0 {
		for i := range bars {
			bars[i] = Bar{Value: 0, Tooltip: "0%"}
		}
		return bars
	}
	scale := float64(height) / maxValue
	for i, v := range values {
		bars[i] = Bar{
			Value:   int(math.Floor(v * scale)),
			Tooltip: strconv.FormatFloat(math.Round(100*v/maxValue), 'f', 0, 64) + "%",
		}
	}
	return bars
}

// FormatNumber formats a sum with as few digits as necessary.
func FormatNumber(sum float64) string {
	return strconv.FormatFloat(sum, 'f', -1, 64)
}

// FormatDollars formats a sum as dollar amount.
func FormatDollars(sum float64) string {
	return "$" + FormatNumber(sum)
}

// Options for New.
type Options struct {
	Label string
	// Link of the "View all" anchor, no anchor if empty.
	Link string
	// Height defaults to DefaultHeight.
	Height int
	// FormatHeading formats the sum of the values
	// and defaults to FormatNumber.
	FormatHeading func(sum float64) string
	// From defaults to one month before To.
	From time.Time
	// To defaults to now.
	To time.Time
	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// Chart is a column chart of a series loaded by a Loader.
// The methods of a Chart are safe for concurrent use.
type Chart struct {
	loader        Loader
	label         string
	link          string
	height        int
	formatHeading func(float64) string
	logger        *zap.Logger

	mu      sync.Mutex
	from    time.Time
	to      time.Time
	series  Series
	loading bool
}

// New returns a Chart for the series of loader.
// The chart shows the loading state until the first Update.
func New(loader Loader, opts Options) *Chart {
	c := &Chart{
		loader:        loader,
		label:         opts.Label,
		link:          opts.Link,
		height:        opts.Height,
		formatHeading: opts.FormatHeading,
		logger:        opts.Logger,
		from:          opts.From,
		to:            opts.To,
		loading:       true,
	}
	if c.height <= 0 {
		c.height = DefaultHeight
	}
	if c.formatHeading == nil {
		c.formatHeading = FormatNumber
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.to.IsZero() {
		c.to = time.Now()
	}
	if c.from.IsZero() {
		c.from = c.to.AddDate(0, -1, 0)
	}
	return c
}

// Range returns the date range of the chart.
func (c *Chart) Range() (from, to time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.from, c.to
}

// Init loads the series for the initial range.
func (c *Chart) Init(ctx context.Context) error {
	from, to := c.Range()
	_, err := c.Update(ctx, from, to)
	return err
}

// Update loads the series for the range from to
// and returns it. The chart is in loading state
// while the series is loaded.
// On error the previous series is kept.
func (c *Chart) Update(ctx context.Context, from, to time.Time) (Series, error) {
	if to.Before(from) {
		return Series{}, fmt.Errorf("invalid range %s to %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	series, err := c.loader.LoadSeries(ctx, from, to)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.loading = false
	if err != nil {
		c.logger.Warn("loading chart series failed", zap.String("label", c.label), zap.Error(err))
		return Series{}, fmt.Errorf("chart %q: %w", c.label, err)
	}
	c.from, c.to = from, to
	c.series = series
	return series, nil
}

// Series returns the last loaded series.
func (c *Chart) Series() Series {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.series
}

// Loading returns true before the first Update and while loading.
func (c *Chart) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loading
}

// Render returns the markup of the chart.
func (c *Chart) Render() (template.HTML, error) {
	c.mu.Lock()
	templData := ChartTemplateContext{
		Label:   c.label,
		Link:    c.link,
		Height:  c.height,
		Heading: c.formatHeading(c.series.Sum()),
		Bars:    Bars(c.series.Values, c.height),
		Loading: c.loading,
	}
	c.mu.Unlock()

	var b strings.Builder
	err := ChartTemplate.Execute(&b, &templData)
	if err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil //#nosec G203
}
