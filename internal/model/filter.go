package model

// FactFilter restricts the fact table with pure row predicates. The zero
// value with IncludeUnallocated=true passes every row.
type FactFilter struct {
	StartMonth string `json:"start_month,omitempty"` // inclusive YYYY-MM, empty = open
	EndMonth   string `json:"end_month,omitempty"`   // inclusive YYYY-MM, empty = open
	Dept       string `json:"dept,omitempty"`        // Department_reporting, empty = all
	Product    string `json:"product,omitempty"`     // empty = all

	IncludeUnallocated bool `json:"include_unallocated"`
	MismatchOnly       bool `json:"mismatch_only"`
	BillableOnly       bool `json:"billable_only"`
	OnshoreOnly        bool `json:"onshore_only"`
}

// Match reports whether a fact row passes the filter. YYYY-MM month keys
// compare correctly as strings.
func (f FactFilter) Match(r FactRow) bool {
	if f.StartMonth != "" && (r.MonthKey == "" || r.MonthKey < f.StartMonth) {
		return false
	}
	if f.EndMonth != "" && (r.MonthKey == "" || r.MonthKey > f.EndMonth) {
		return false
	}
	if f.Dept != "" && r.DeptReporting != f.Dept {
		return false
	}
	if f.Product != "" && r.Product != f.Product {
		return false
	}
	if !f.IncludeUnallocated && r.UnallocatedRow {
		return false
	}
	if f.MismatchOnly && !r.DeptMismatched {
		return false
	}
	if f.BillableOnly && r.BillableHours <= 0 {
		return false
	}
	if f.OnshoreOnly && r.OnshoreHours <= 0 {
		return false
	}
	return true
}

// Apply returns the rows passing the filter, preserving order. The input is
// never mutated.
func (f FactFilter) Apply(rows []FactRow) []FactRow {
	out := make([]FactRow, 0, len(rows))
	for _, r := range rows {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
