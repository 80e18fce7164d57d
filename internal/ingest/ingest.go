// Package ingest collapses the three raw input sheets into their canonical
// aggregates: revenue per job-month, timesheet per job-task-month, and quotes
// per job-task.
package ingest

import (
	"strconv"
	"strings"

	"github.com/sells-group/jobcost-cli/internal/fetcher"
)

// Options carries the optional key-mapping overrides applied while
// aggregating timesheets and quotes.
type Options struct {
	TaskNames   fetcher.Mapping
	Departments fetcher.Mapping
}

// parseNumber coerces a cell to a float. Currency symbols, thousands
// separators and unparseable text all resolve to 0.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func firstNonEmpty(current, candidate string) string {
	if current != "" {
		return current
	}
	return candidate
}
