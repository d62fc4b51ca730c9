// Package dashboard composes the sortable product table
// and the column charts into the dashboard page.
package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	sorttable "github.com/domonda/go-sorttable"
	"github.com/domonda/go-sorttable/columnchart"
	"github.com/domonda/go-sorttable/htmltable"
)

// PageTemplate renders a PageTemplateContext.
var PageTemplate = template.Must(template.New("page").Parse("" +
	`<div class="dashboard full-height flex-column">` + "\n" +
	`  <div data-element="topPanel" class="content__top-panel">` + "\n" +
	`    <h2 class="page-title">Dashboard</h2>` + "\n" +
	`    <form data-element="rangePicker" class="rangepicker" method="get">` +
	`<input type="date" name="from" value="{{.From}}"><input type="date" name="to" value="{{.To}}"><button type="submit">Apply</button>` +
	`</form>` + "\n" +
	`  </div>` + "\n" +
	`  <div class="dashboard__charts">` + "\n" +
	`{{range .Charts}}    <div data-element="{{.Name}}Chart" class="dashboard__chart_{{.Name}}">{{.HTML}}</div>` + "\n" + `{{end}}` +
	`  </div>` + "\n" +
	`  <h3 class="block-title">Best sellers</h3>` + "\n" +
	`  <div data-element="sortableTable">{{.Table}}</div>` + "\n" +
	`</div>`,
))

// PageTemplateContext is passed to PageTemplate.
type PageTemplateContext struct {
	From   string
	To     string
	Charts []ChartContext
	Table  template.HTML
}

// ChartContext is a rendered chart of a PageTemplateContext.
type ChartContext struct {
	Name string
	HTML template.HTML
}

// NamedChart is a chart with the name of its page region.
type NamedChart struct {
	Name  string
	Chart *columnchart.Chart
}

// Page owns the table and the charts of the dashboard.
type Page struct {
	table   *sorttable.Table
	element *htmltable.Element
	charts  []NamedChart
	logger  *zap.Logger

	mu          sync.Mutex
	initialized bool
	from        time.Time
	to          time.Time
}

// NewPage returns a Page with a table rendered into element
// and the charts in order.
// The page date range defaults to the range of the first chart.
func NewPage(table *sorttable.Table, element *htmltable.Element, charts []NamedChart, logger *zap.Logger) *Page {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Page{
		table:   table,
		element: element,
		charts:  charts,
		logger:  logger,
		to:      time.Now(),
	}
	p.from = p.to.AddDate(0, -1, 0)
	if len(charts) > 0 {
		p.from, p.to = charts[0].Chart.Range()
	}
	return p
}

// Table returns the table of the page.
func (p *Page) Table() *sorttable.Table {
	return p.table
}

// Chart returns the chart with name.
func (p *Page) Chart(name string) (*columnchart.Chart, bool) {
	for _, c := range p.charts {
		if c.Name == name {
			return c.Chart, true
		}
	}
	return nil, false
}

// Init initializes the table and loads all charts concurrently.
// Init is called by the first Render and can be called
// again after it returned an error.
func (p *Page) Init(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.table.Init(ctx)
	})
	for _, c := range p.charts {
		g.Go(func() error {
			_, err := c.Chart.Update(ctx, p.from, p.to)
			return err
		})
	}
	err := g.Wait()
	if err != nil {
		p.logger.Error("initializing dashboard failed", zap.Error(err))
		return err
	}
	p.initialized = true
	return nil
}

// Update reloads all charts for the range from to.
func (p *Page) Update(ctx context.Context, from, to time.Time) error {
	if to.Before(from) {
		return fmt.Errorf("invalid range %s to %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range p.charts {
		g.Go(func() error {
			_, err := c.Chart.Update(ctx, from, to)
			return err
		})
	}
	err := g.Wait()
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.from, p.to = from, to
	p.mu.Unlock()
	p.logger.Debug("updated dashboard range", zap.Time("from", from), zap.Time("to", to))
	return nil
}

// Range returns the date range of the charts.
func (p *Page) Range() (from, to time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.from, p.to
}

// Render initializes the page if necessary
// and returns its markup.
func (p *Page) Render(ctx context.Context) (template.HTML, error) {
	err := p.Init(ctx)
	if err != nil {
		return "", err
	}
	from, to := p.Range()
	templData := PageTemplateContext{
		From:   from.Format(time.DateOnly),
		To:     to.Format(time.DateOnly),
		Charts: make([]ChartContext, len(p.charts)),
	}
	for i, c := range p.charts {
		html, err := c.Chart.Render()
		if err != nil {
			return "", err
		}
		templData.Charts[i] = ChartContext{Name: c.Name, HTML: html}
	}
	templData.Table, err = p.element.Root()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	err = PageTemplate.Execute(&b, &templData)
	if err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil //#nosec G203
}

// Destroy destroys the table of the page.
func (p *Page) Destroy() {
	p.table.Destroy()
}
