// Package httpsource loads table pages from a remote HTTP endpoint
// and serves pages of any sorttable.PageLoader over HTTP.
//
// The endpoint contract uses the query parameters
//   - _sort: the sort column id
//   - _order: "asc" or "desc"
//   - _start: the first row index (inclusive)
//   - _end: the last row index (exclusive)
//
// and responds with a JSON array of record objects.
package httpsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/domonda/go-types/charset"
)

// MaxResponseSize limits the size of a response body read by FetchJSON.
const MaxResponseSize = 32 << 20

// ErrResponseTooLarge is returned by FetchJSON
// for successful responses with a body exceeding MaxResponseSize.
var ErrResponseTooLarge = fmt.Errorf("response body exceeds %d bytes", MaxResponseSize)

// StatusError is returned for responses with a non 2xx status code.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
	}
	return fmt.Sprintf("GET %s: %s: %s", e.URL, e.Status, e.Body)
}

// FetchJSON gets u and decodes the JSON response body into dest.
// Bodies with a charset other than UTF-8 in the Content-Type
// header are decoded to UTF-8 first.
// Numbers are decoded as json.Number when dest is an interface value.
// A nil client uses http.DefaultClient.
func FetchJSON(ctx context.Context, client *http.Client, u *url.URL, dest any) error {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	response, err := client.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, MaxResponseSize+1))
	if err != nil {
		return fmt.Errorf("GET %s: reading body: %w", u, err)
	}
	tooLarge := len(body) > MaxResponseSize
	if tooLarge {
		body = body[:MaxResponseSize]
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return &StatusError{
			URL:        u.String(),
			StatusCode: response.StatusCode,
			Status:     response.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	if tooLarge {
		return fmt.Errorf("GET %s: %w", u, ErrResponseTooLarge)
	}
	body, err = decodeCharset(body, response.Header.Get("Content-Type"))
	if err != nil {
		return fmt.Errorf("GET %s: %w", u, err)
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	err = decoder.Decode(dest)
	if err != nil {
		return fmt.Errorf("GET %s: decoding JSON: %w", u, err)
	}
	return nil
}

func decodeCharset(body []byte, contentType string) ([]byte, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Missing or broken Content-Type, JSON defaults to UTF-8
		return charset.TrimBOM(body, charset.BOMUTF8), nil
	}
	name := strings.ToUpper(strings.TrimSpace(params["charset"]))
	if name == "" || name == "UTF-8" || name == "UTF8" {
		return charset.TrimBOM(body, charset.BOMUTF8), nil
	}
	enc, err := charset.GetEncoding(params["charset"])
	if err != nil {
		return nil, err
	}
	return enc.Decode(body)
}
