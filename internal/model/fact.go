package model

// Provenance tags which side(s) of the reconciliation produced a fact row.
type Provenance string

const (
	ProvenanceActualOnly  Provenance = "ACTUAL_ONLY"
	ProvenanceQuoteOnly   Provenance = "QUOTE_ONLY"
	ProvenanceBoth        Provenance = "BOTH"
	ProvenanceUnallocated Provenance = "UNALLOCATED"
)

// DeptMatchStatus classifies how the actual and quoted departments relate on a
// fact row. It is a pure function of the two department fields plus the
// quote-only / actual-only flags.
type DeptMatchStatus string

const (
	DeptMatch             DeptMatchStatus = "MATCH"
	DeptMissingQuoteDept  DeptMatchStatus = "MISSING_QUOTE_DEPT"
	DeptMissingActualDept DeptMatchStatus = "MISSING_ACTUAL_DEPT"
	DeptMismatch          DeptMatchStatus = "MISMATCH"
	DeptQuoteOnlyTask     DeptMatchStatus = "QUOTE_ONLY_TASK"
	DeptActualOnlyTask    DeptMatchStatus = "ACTUAL_ONLY_TASK"
)

// FactRow is the canonical fact-table row at job x task x month grain.
type FactRow struct {
	JobNo      string     `json:"job_no"`
	TaskName   string     `json:"task_name"`
	MonthKey   string     `json:"month_key"`
	Provenance Provenance `json:"provenance"`

	ActualHours     float64 `json:"actual_hours"`
	ActualCost      float64 `json:"actual_cost"`
	BillableHours   float64 `json:"billable_hours"`
	OnshoreHours    float64 `json:"onshore_hours"`
	AvgBaseRate     float64 `json:"avg_base_rate"`
	AvgBillableRate float64 `json:"avg_billable_rate"`
	DistinctStaff   int     `json:"distinct_staff_count"`

	QuotedTime   float64 `json:"quoted_time"`
	QuotedAmount float64 `json:"quoted_amount"`

	RevenueMonthly float64 `json:"revenue_monthly"`
	TotalJobHours  float64 `json:"total_job_hours"`
	TaskShare      float64 `json:"task_share"`
	RevAlloc       float64 `json:"rev_alloc"`

	GP          float64 `json:"gp"`
	Margin      float64 `json:"margin"`
	HourOverrun float64 `json:"hour_overrun"`
	RevPerHour  float64 `json:"rev_per_hour"`
	CostPerHour float64 `json:"cost_per_hour"`

	UnquotedTask   bool `json:"is_unquoted_task"`
	QuoteOnlyTask  bool `json:"is_quote_only_task"`
	UnallocatedRow bool `json:"is_unallocated_row"`

	DeptActual      string          `json:"department_actual"`
	DeptQuote       string          `json:"department_quote"`
	DeptReporting   string          `json:"department_reporting"`
	DeptStatus      DeptMatchStatus `json:"dept_match_status"`
	DeptMismatched  bool            `json:"dept_mismatch"`
	DeptTopShare    float64         `json:"dept_top_share"`
	MixedDepartment bool            `json:"mixed_department"`

	Client      string `json:"client"`
	Product     string `json:"product"`
	JobName     string `json:"job_name"`
	JobStatus   string `json:"job_status"`
	JobCategory string `json:"job_category"`
}

// Key returns the fact-table identity tuple as a single string, suitable for
// uniqueness checks.
func (r FactRow) Key() string {
	return r.JobNo + "\x1f" + r.TaskName + "\x1f" + r.MonthKey
}
