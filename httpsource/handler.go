package httpsource

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	sorttable "github.com/domonda/go-sorttable"
)

// DefaultMaxPageSize limits the row range of a single request to a Handler.
const DefaultMaxPageSize = 100

// Handler serves pages of a sorttable.PageLoader
// using the page endpoint contract.
type Handler struct {
	loader      sorttable.PageLoader
	columns     sorttable.Columns
	logger      *zap.Logger
	maxPageSize int
}

// NewHandler returns a Handler for loader.
// Only sortable columns are accepted as sort parameter.
// A nil logger disables logging.
func NewHandler(loader sorttable.PageLoader, columns sorttable.Columns, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		loader:      loader,
		columns:     columns,
		logger:      logger,
		maxPageSize: DefaultMaxPageSize,
	}
}

// WithMaxPageSize returns a copy of the handler
// that accepts row ranges of up to maxPageSize rows.
func (h *Handler) WithMaxPageSize(maxPageSize int) *Handler {
	mod := *h
	mod.maxPageSize = maxPageSize
	return &mod
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	req, err := ParsePageRequest(r.URL.Query(), sorttable.DefaultPageSize)
	if err == nil {
		err = h.validate(req)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := h.loader.LoadPage(r.Context(), req)
	if err != nil {
		h.logger.Error("loading page failed", zap.Stringer("request", req), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []sorttable.Record{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	err = json.NewEncoder(w).Encode(records)
	if err != nil {
		h.logger.Warn("writing page failed", zap.Stringer("request", req), zap.Error(err))
	}
}

func (h *Handler) validate(req sorttable.PageRequest) error {
	if req.Limit() > h.maxPageSize {
		return fmt.Errorf("page range [%d,%d) exceeds %d rows", req.Start, req.End, h.maxPageSize)
	}
	if req.Sort.IsEmpty() || h.columns == nil {
		return nil
	}
	col, ok := h.columns.Column(req.Sort.ColumnID)
	if !ok {
		return fmt.Errorf("%w: %q", sorttable.ErrUnknownColumn, req.Sort.ColumnID)
	}
	if !col.CanSort() {
		return fmt.Errorf("%w: %q", sorttable.ErrNotSortable, req.Sort.ColumnID)
	}
	return nil
}

// ParsePageRequest parses the page query parameters.
// A missing _start defaults to 0
// and a missing _end to _start + defaultPageSize.
func ParsePageRequest(query url.Values, defaultPageSize int) (req sorttable.PageRequest, err error) {
	req.Sort.ColumnID = query.Get(ParamSort)
	req.Sort.Direction, err = sorttable.ParseDirection(query.Get(ParamOrder))
	if err != nil {
		return req, err
	}
	req.Start, err = intParam(query, ParamStart, 0)
	if err != nil {
		return req, err
	}
	req.End, err = intParam(query, ParamEnd, req.Start+defaultPageSize)
	if err != nil {
		return req, err
	}
	if req.Start < 0 || req.End < req.Start {
		return req, fmt.Errorf("invalid page range [%d,%d)", req.Start, req.End)
	}
	return req, nil
}

func intParam(query url.Values, name string, defaultValue int) (int, error) {
	s := query.Get(name)
	if s == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("invalid " + name + " parameter: " + strconv.Quote(s))
	}
	return i, nil
}
