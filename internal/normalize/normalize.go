// Package normalize canonicalizes the free-text keys joining the three input
// sheets and provides the shared reductions (weighted mode, percentiles) the
// downstream engines depend on.
package normalize

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)
)

// Text trims and collapses internal whitespace.
func Text(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// JobNo canonicalizes a job number: whitespace-collapsed, uppercased.
func JobNo(s string) string {
	return upper.String(Text(s))
}

// TaskName canonicalizes a task name: whitespace-collapsed, lowercased.
func TaskName(s string) string {
	return lower.String(Text(s))
}

// Department canonicalizes a department name: whitespace-collapsed, uppercased.
func Department(s string) string {
	return upper.String(Text(s))
}

// Truthy reports whether a cell holds an affirmative flag.
func Truthy(s string) bool {
	switch upper.String(Text(s)) {
	case "Y", "YES", "TRUE", "1":
		return true
	}
	return false
}

// TruthyExcluded reports whether a revenue row is flagged excluded.
func TruthyExcluded(s string) bool {
	switch upper.String(Text(s)) {
	case "Y", "YES", "TRUE", "1", "EXCLUDE", "EXCLUDED":
		return true
	}
	return false
}

// MonthKey renders a date as its first-of-month key.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// dateLayouts covers the display formats xlsx cells arrive in.
var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"01-02-06",
	"1/2/2006",
	"1/2/06",
	"02-Jan-06",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// ParseDate parses a cell's display string into a date. ok is false for empty
// or unparseable cells.
func ParseDate(s string) (time.Time, bool) {
	s = Text(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseMonthKey parses a cell into a YYYY-MM month key, empty when the cell
// holds no resolvable date.
func ParseMonthKey(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return MonthKey(t)
}

// FYLabel returns the fiscal-year label for a month key, with the year
// rolling over in July: 2025-06 -> FY25, 2025-07 -> FY26.
func FYLabel(monthKey string) string {
	t, err := time.Parse("2006-01", monthKey)
	if err != nil {
		return ""
	}
	year := t.Year()
	if t.Month() >= time.July {
		year++
	}
	return "FY" + time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("06")
}

// PeriodLabel names a month window, "ALL" when unbounded.
func PeriodLabel(start, end string) string {
	if start == "" || end == "" {
		return "ALL"
	}
	return start + "_to_" + end
}

// Weighted is one (value, weight) observation for a weighted-mode reduction.
type Weighted struct {
	Value  string
	Weight float64
}

// WeightedMode picks the value with the greatest total weight, ignoring empty
// values. Ties break in favor of the value seen first. The share is the
// winner's weight over the total weight of non-empty values.
func WeightedMode(obs []Weighted) (top string, share float64) {
	totals := make(map[string]float64)
	var order []string
	var total float64

	for _, o := range obs {
		v := Text(o.Value)
		if v == "" {
			continue
		}
		if _, seen := totals[v]; !seen {
			order = append(order, v)
		}
		totals[v] += o.Weight
		total += o.Weight
	}
	if len(order) == 0 {
		return "", 0
	}

	top = order[0]
	for _, v := range order[1:] {
		if totals[v] > totals[top] {
			top = v
		}
	}
	if total > 0 {
		share = totals[top] / total
	}
	return top, share
}

// WeightedAttribute is WeightedMode plus a mixed flag: more than one distinct
// value (empties included) with the winner below a 0.7 share.
func WeightedAttribute(obs []Weighted) (top string, share float64, mixed bool) {
	top, share = WeightedMode(obs)

	distinct := make(map[string]struct{})
	for _, o := range obs {
		distinct[Text(o.Value)] = struct{}{}
	}
	mixed = len(distinct) > 1 && share < 0.7
	return top, share, mixed
}
