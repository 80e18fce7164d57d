package model

import "time"

// QA check names reported by the QA engine.
const (
	CheckFactUniqueKeys         = "fact_unique_keys"
	CheckFactDuplicateCount     = "fact_duplicate_count"
	CheckRevenueAllocationPass  = "revenue_allocation_pass"
	CheckRevenueAllocationFails = "revenue_allocation_fail_count"
	CheckNegativeHoursCount     = "negative_hours_count"
	CheckMissingDeptActualCount = "missing_department_actual_count"
	CheckUnplacedQuoteOnlyCount = "unplaced_quote_only_count"
)

// QAReport is the structured output of the QA engine. Checks always contains
// every check; a failing check never suppresses the others.
type QAReport struct {
	Timestamp string         `json:"timestamp"`
	Checks    map[string]int `json:"checks"`
	Warnings  []string       `json:"warnings"`
}

// Passed reports whether all pass/fail style checks succeeded.
func (r QAReport) Passed() bool {
	return r.Checks[CheckFactUniqueKeys] == 1 &&
		r.Checks[CheckRevenueAllocationPass] == 1 &&
		r.Checks[CheckNegativeHoursCount] == 0
}

// BuildInfo records one pipeline run for provenance.
type BuildInfo struct {
	ID        string    `json:"id"`
	InputPath string    `json:"input_path"`
	FY        string    `json:"fy,omitempty"`
	FactRows  int       `json:"fact_rows"`
	CreatedAt time.Time `json:"created_at"`
}

// Dataset bundles every derived table produced by one pipeline run.
type Dataset struct {
	Fact        []FactRow         `json:"fact"`
	JobMonth    []JobMonthSummary `json:"job_month"`
	JobTotal    []JobTotalSummary `json:"job_total"`
	JobTask     []JobTaskSummary  `json:"job_task"`
	Drivers     []DriverSummary   `json:"drivers"`
	TaskCatalog []CatalogEntry    `json:"task_catalog"`
	Templates   []JobTemplate     `json:"templates"`
	Comps       []JobComps        `json:"comps"`
	QA          QAReport          `json:"qa"`
}
