package server

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/domonda/go-sorttable/columnchart"
)

// MaxSeriesDays limits the range of a series request.
const MaxSeriesDays = 366

// SampleSeries returns deterministic daily values
// of the series name for the days from to.
func SampleSeries(name string, from, to time.Time) map[string]float64 {
	values := make(map[string]float64)
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; !day.After(to) && i < MaxSeriesDays; i++ {
		key := day.Format(time.DateOnly)
		h := fnv.New32a()
		h.Write([]byte(name + key)) //#nosec G104 -- hash writes never fail
		values[key] = float64(h.Sum32() % 100)
		day = day.AddDate(0, 0, 1)
	}
	return values
}

// ParseRange parses the "from" and "to" query parameters
// as RFC 3339 timestamp or date.
// Missing values default to the month before now.
func ParseRange(r *http.Request) (from, to time.Time, err error) {
	to = time.Now()
	from = to.AddDate(0, -1, 0)
	if s := r.URL.Query().Get(columnchart.ParamFrom); s != "" {
		from, err = parseTime(s)
		if err != nil {
			return from, to, err
		}
	}
	if s := r.URL.Query().Get(columnchart.ParamTo); s != "" {
		to, err = parseTime(s)
		if err != nil {
			return from, to, err
		}
	}
	if to.Before(from) {
		return from, to, fmt.Errorf("invalid range %s to %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	return from, to, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.DateOnly, s)
	if err != nil {
		return t, fmt.Errorf("invalid time %q", s)
	}
	return t, nil
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	from, to, err := ParseRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	err = json.NewEncoder(w).Encode(SampleSeries(r.PathValue("name"), from, to))
	if err != nil {
		s.requestLogger(r).Warn("writing series failed", zap.Error(err))
	}
}
