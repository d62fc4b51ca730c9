package httpsource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	sorttable "github.com/domonda/go-sorttable"
)

// Query parameter names of the page endpoint contract.
const (
	ParamSort  = "_sort"
	ParamOrder = "_order"
	ParamStart = "_start"
	ParamEnd   = "_end"
)

var _ sorttable.PageLoader = new(Source)

// Source is a sorttable.PageLoader for a remote page endpoint.
type Source struct {
	url    *url.URL
	client *http.Client
	logger *zap.Logger
}

// New returns a Source for the endpoint path resolved against baseURL.
// An absolute path ignores baseURL.
// A nil client uses http.DefaultClient
// and a nil logger disables logging.
func New(baseURL, path string, client *http.Client, logger *zap.Logger) (*Source, error) {
	u, err := ResolveURL(baseURL, path)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{url: u, client: client, logger: logger}, nil
}

// ResolveURL resolves path against baseURL.
func ResolveURL(baseURL, path string) (*url.URL, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL path %q: %w", path, err)
	}
	u := base.ResolveReference(ref)
	if !u.IsAbs() {
		return nil, fmt.Errorf("URL %q is not absolute", u)
	}
	return u, nil
}

// URL returns the endpoint URL without page parameters.
func (s *Source) URL() *url.URL {
	u := *s.url
	return &u
}

// PageURL returns the endpoint URL with the query parameters for req.
// Query parameters of the endpoint URL are preserved.
// The sort parameters are omitted for an empty sort state.
func (s *Source) PageURL(req sorttable.PageRequest) *url.URL {
	u := s.URL()
	query := u.Query()
	if !req.Sort.IsEmpty() {
		query.Set(ParamSort, req.Sort.ColumnID)
		query.Set(ParamOrder, req.Sort.Direction.String())
	}
	query.Set(ParamStart, strconv.Itoa(req.Start))
	query.Set(ParamEnd, strconv.Itoa(req.End))
	u.RawQuery = query.Encode()
	return u
}

// LoadPage implements sorttable.PageLoader.
// Errors are returned to the caller without retrying.
func (s *Source) LoadPage(ctx context.Context, req sorttable.PageRequest) ([]sorttable.Record, error) {
	u := s.PageURL(req)
	var records []sorttable.Record
	err := FetchJSON(ctx, s.client, u, &records)
	if err != nil {
		s.logger.Warn("fetching page failed", zap.Stringer("url", u), zap.Error(err))
		return nil, err
	}
	s.logger.Debug("fetched page", zap.Stringer("url", u), zap.Int("records", len(records)))
	if records == nil {
		records = []sorttable.Record{}
	}
	return records, nil
}
