// Package model defines the tabular entities flowing through the job-costing
// pipeline: sheet aggregates, the canonical fact table, derived summaries,
// quote intelligence outputs, and the QA report.
package model

// UnallocatedTask is the synthetic task name carrying revenue recognized in a
// job-month with zero logged hours.
const UnallocatedTask = "__UNALLOCATED__"

// RevenueMonth is one job-month of recognized revenue, excluded rows removed.
type RevenueMonth struct {
	JobNo    string  `json:"job_no"`
	MonthKey string  `json:"month_key"` // YYYY-MM
	Revenue  float64 `json:"revenue_monthly"`
	FY       string  `json:"fy,omitempty"` // label from the source sheet, may be empty
}

// TaskMonth is the timesheet aggregate at job x task x month grain.
type TaskMonth struct {
	JobNo    string `json:"job_no"`
	TaskName string `json:"task_name"`
	MonthKey string `json:"month_key"`

	JobNoRaw    string `json:"job_no_raw"`
	TaskNameRaw string `json:"task_name_raw"`

	ActualHours   float64 `json:"actual_hours"`
	ActualCost    float64 `json:"actual_cost"`
	BillableHours float64 `json:"billable_hours"`
	OnshoreHours  float64 `json:"onshore_hours"`

	AvgBaseRate     float64 `json:"avg_base_rate"`
	AvgBillableRate float64 `json:"avg_billable_rate"`
	DistinctStaff   int     `json:"distinct_staff_count"`

	DeptActual   string  `json:"department_actual"`
	DeptTopShare float64 `json:"dept_top_share"`
	DeptMixed    bool    `json:"dept_mixed"`

	RoleTop      string  `json:"role_top,omitempty"`
	RoleTopShare float64 `json:"role_top_share,omitempty"`
	RoleMixed    bool    `json:"role_mixed,omitempty"`
}

// QuoteTask is the quote aggregate at job x task grain. QuoteMonthKey is empty
// when neither the task nor the job carries a start or due date.
type QuoteTask struct {
	JobNo    string `json:"job_no"`
	TaskName string `json:"task_name"`

	QuotedTime   float64 `json:"quoted_time"`
	QuotedAmount float64 `json:"quoted_amount"`

	DeptQuote   string `json:"department_quote"`
	Client      string `json:"client"`
	Product     string `json:"product"`
	JobName     string `json:"job_name"`
	JobStatus   string `json:"job_status"`
	JobCategory string `json:"job_category"`

	QuoteMonthKey string `json:"quote_month_key,omitempty"`
}

// AllocatedRow is a TaskMonth joined with its job-month revenue and allocated
// share. Unallocated marks the synthetic orphan rows.
type AllocatedRow struct {
	TaskMonth

	RevenueMonthly float64 `json:"revenue_monthly"`
	TotalJobHours  float64 `json:"total_job_hours"`
	TaskShare      float64 `json:"task_share"`
	RevAlloc       float64 `json:"rev_alloc"`
	Unallocated    bool    `json:"is_unallocated_row"`
}
