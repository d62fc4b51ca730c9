// Package server serves the dashboard page,
// the product page endpoint and the chart series endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	sorttable "github.com/domonda/go-sorttable"
	"github.com/domonda/go-sorttable/columnchart"
	"github.com/domonda/go-sorttable/htmltable"
	"github.com/domonda/go-sorttable/httpsource"
	"github.com/domonda/go-sorttable/internal/config"
	"github.com/domonda/go-sorttable/internal/dashboard"
)

// LayoutTemplate renders a complete HTML document
// around the dashboard page.
var LayoutTemplate = template.Must(template.New("layout").Parse("" +
	"<!DOCTYPE html>\n" +
	`<html lang="en">` + "\n" +
	`<head><meta charset="utf-8"><title>{{.Title}}</title></head>` + "\n" +
	"<body>\n{{.Body}}\n</body>\n" +
	"</html>\n",
))

// Server of the dashboard.
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	columns  sorttable.Columns
	loader   sorttable.PageLoader
	close    func() error
	renderer *htmltable.Renderer
	element  *htmltable.Element
	page     *dashboard.Page
	handler  http.Handler
}

// New returns a Server for cfg.
// The table and the charts load from cfg.BackendURL if set,
// else from the configured data and sample series of the server itself.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	columns, err := cfg.Table.TableColumns()
	if err != nil {
		return nil, err
	}
	loader, closeLoader, err := OpenLoader(ctx, cfg.Data, columns, logger)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		columns:  columns,
		loader:   loader,
		close:    closeLoader,
		renderer: htmltable.NewRenderer().WithRowLinkPrefix(cfg.Table.RowLinkPrefix),
	}
	s.element = htmltable.NewElement(s.renderer)

	tableSource := loader
	if cfg.BackendURL != "" {
		tableSource, err = httpsource.New(cfg.BackendURL, cfg.Table.URL, nil, logger)
		if err != nil {
			closeLoader() //#nosec G104
			return nil, err
		}
	}
	table, err := sorttable.New(columns, sorttable.Options{
		Source:      tableSource,
		SortLocally: cfg.Table.SortLocally,
		Sorted:      cfg.Table.Sorted,
		PageSize:    cfg.Table.PageSize,
		View:        s.element,
		Logger:      logger.Named("table"),
	})
	if err != nil {
		closeLoader() //#nosec G104
		return nil, err
	}

	charts := make([]dashboard.NamedChart, len(cfg.Charts))
	for i, cc := range cfg.Charts {
		chartLoader, err := s.chartLoader(cc)
		if err != nil {
			closeLoader() //#nosec G104
			return nil, err
		}
		opts := columnchart.Options{
			Label:  cc.Label,
			Link:   cc.Link,
			Logger: logger.Named("chart"),
		}
		if cc.Dollars {
			opts.FormatHeading = columnchart.FormatDollars
		}
		charts[i] = dashboard.NamedChart{Name: cc.Name, Chart: columnchart.New(chartLoader, opts)}
	}
	s.page = dashboard.NewPage(table, s.element, charts, logger.Named("dashboard"))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /fragments/table", s.handleTableFragment)
	mux.HandleFunc("GET /fragments/rows", s.handleRowsFragment)
	mux.Handle("GET "+APIPath(cfg.Table.URL), httpsource.NewHandler(loader, columns, logger.Named("api")))
	mux.HandleFunc("GET /api/dashboard/{name}", s.handleSeries)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
	s.handler = s.withRequestLogging(mux)
	return s, nil
}

// DefaultAPIPath serves the configured data
// if the table URL has no usable path.
const DefaultAPIPath = "/api/products"

// APIPath returns the path of the page endpoint
// the server provides for a table URL.
func APIPath(tableURL string) string {
	u, err := url.Parse(tableURL)
	if err != nil || strings.Trim(u.Path, "/") == "" {
		return DefaultAPIPath
	}
	return "/" + strings.TrimPrefix(u.Path, "/")
}

func (s *Server) chartLoader(cc config.ChartConfig) (columnchart.Loader, error) {
	if s.cfg.BackendURL != "" {
		return columnchart.NewHTTPLoader(s.cfg.BackendURL, cc.URL, nil, s.logger)
	}
	return columnchart.LoaderFunc(func(ctx context.Context, from, to time.Time) (columnchart.Series, error) {
		return columnchart.SeriesFromMap(SampleSeries(cc.Name, from, to)), nil
	}), nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Page returns the dashboard page.
func (s *Server) Page() *dashboard.Page {
	return s.page
}

// ListenAndServe serves on the configured address
// until ctx is canceled and then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("address", s.cfg.Listen))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if e := <-errc; !errors.Is(e, http.ErrServerClosed) && err == nil {
		err = e
	}
	return err
}

// Close destroys the dashboard and closes the data source.
func (s *Server) Close() error {
	s.page.Destroy()
	return s.close()
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	if query.Has(columnchart.ParamFrom) || query.Has(columnchart.ParamTo) {
		from, to, err := ParseRange(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// The page has to be initialized before updating its range
		if err = s.page.Init(ctx); err == nil {
			err = s.page.Update(ctx, from, to)
		}
		if err != nil {
			s.serverError(w, r, err)
			return
		}
	}
	body, err := s.page.Render(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = LayoutTemplate.Execute(w, struct {
		Title string
		Body  template.HTML
	}{Title: "Dashboard", Body: body})
	if err != nil {
		s.requestLogger(r).Warn("writing page failed", zap.Error(err))
	}
}

// handleTableFragment applies an optional header click
// or scroll to the table and returns its markup.
//
// Query parameters:
//   - click: the id of a clicked header column
//   - more: any value loads the next page
func (s *Server) handleTableFragment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := s.page.Init(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	table := s.page.Table()
	if id := r.URL.Query().Get("click"); id != "" {
		_, err = table.ClickHeader(ctx, id)
	} else if r.URL.Query().Has("more") {
		_, err = table.LoadMore(ctx)
	}
	if errors.Is(err, sorttable.ErrLoading) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	root, err := s.element.Root()
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, root)
}

// handleRowsFragment renders the rows of a page request
// for appending to a table body.
func (s *Server) handleRowsFragment(w http.ResponseWriter, r *http.Request) {
	req, err := httpsource.ParsePageRequest(r.URL.Query(), s.pageSize())
	if err == nil && req.Limit() > httpsource.DefaultMaxPageSize {
		err = fmt.Errorf("page range [%d,%d) exceeds %d rows", req.Start, req.End, httpsource.DefaultMaxPageSize)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	records, err := s.loader.LoadPage(r.Context(), req)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	rows, err := s.renderer.Rows(r.Context(), s.columns, records)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, rows)
}

func (s *Server) pageSize() int {
	if s.cfg.Table.PageSize > 0 {
		return s.cfg.Table.PageSize
	}
	return sorttable.DefaultPageSize
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.requestLogger(r).Error("request failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
