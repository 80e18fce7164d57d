package model

// JobMonthSummary rolls the fact table up to job x month.
type JobMonthSummary struct {
	JobNo    string `json:"job_no"`
	MonthKey string `json:"month_key"`

	RevenueMonthly     float64 `json:"revenue_monthly"`
	RevAlloc           float64 `json:"rev_alloc"`
	ActualCost         float64 `json:"actual_cost"`
	ActualHours        float64 `json:"actual_hours"`
	BillableHours      float64 `json:"billable_hours"`
	OnshoreHours       float64 `json:"onshore_hours"`
	UnallocatedRevenue float64 `json:"unallocated_revenue"`
	UnquotedHours      float64 `json:"unquoted_hours"`
	DeptMismatchHours  float64 `json:"dept_mismatch_hours"`

	GP                float64 `json:"gp"`
	Margin            float64 `json:"margin"`
	RevPerHour        float64 `json:"rev_per_hour"`
	CostPerHour       float64 `json:"cost_per_hour"`
	UnquotedShare     float64 `json:"unquoted_share"`
	DeptMismatchShare float64 `json:"dept_mismatch_share"`
	BillableShare     float64 `json:"billable_share"`
	OnshoreShare      float64 `json:"onshore_share"`
}

// JobTotalSummary rolls the fact table up to one row per job, enriched with
// quote totals.
type JobTotalSummary struct {
	JobNo string `json:"job_no"`

	RevAlloc           float64 `json:"rev_alloc"`
	ActualCost         float64 `json:"actual_cost"`
	ActualHours        float64 `json:"actual_hours"`
	BillableHours      float64 `json:"billable_hours"`
	OnshoreHours       float64 `json:"onshore_hours"`
	UnallocatedRevenue float64 `json:"unallocated_revenue"`
	UnquotedHours      float64 `json:"unquoted_hours"`
	DeptMismatchHours  float64 `json:"dept_mismatch_hours"`

	GP                float64 `json:"gp"`
	Margin            float64 `json:"margin"`
	RevPerHour        float64 `json:"rev_per_hour"`
	CostPerHour       float64 `json:"cost_per_hour"`
	UnquotedShare     float64 `json:"unquoted_share"`
	DeptMismatchShare float64 `json:"dept_mismatch_share"`
	BillableShare     float64 `json:"billable_share"`
	OnshoreShare      float64 `json:"onshore_share"`

	QuotedTimeTotal   float64 `json:"quoted_time_total"`
	QuotedAmountTotal float64 `json:"quoted_amount_total"`
	QuoteAttainment   float64 `json:"quote_attainment_total"`
	Client            string  `json:"client"`
	JobName           string  `json:"job_name"`
}

// JobTaskSummary rolls the fact table up to job x task across all months.
type JobTaskSummary struct {
	JobNo    string `json:"job_no"`
	TaskName string `json:"task_name"`

	ActualHours  float64 `json:"actual_hours"`
	ActualCost   float64 `json:"actual_cost"`
	RevAlloc     float64 `json:"rev_alloc"`
	QuotedTime   float64 `json:"quoted_time"`
	QuotedAmount float64 `json:"quoted_amount"`

	GP           float64 `json:"gp"`
	Margin       float64 `json:"margin"`
	OverrunHours float64 `json:"overrun_hours"`
	CostPerHour  float64 `json:"cost_per_hour"`
	OverrunCost  float64 `json:"overrun_cost"`
}

// DriverSummary decomposes the gap between baseline and actual gross profit
// for one job into named additive cost drivers.
type DriverSummary struct {
	JobNo   string `json:"job_no"`
	Client  string `json:"client"`
	JobName string `json:"job_name"`

	RevAlloc    float64 `json:"rev_alloc"`
	ActualCost  float64 `json:"actual_cost"`
	ActualHours float64 `json:"actual_hours"`

	QuotedOverrunCost    float64 `json:"quoted_overrun_cost"`
	UnquotedWorkCost     float64 `json:"unquoted_work_cost"`
	RateMixImpact        float64 `json:"rate_mix_impact"`
	NonbillableLeakage   float64 `json:"nonbillable_leakage"`
	RevenueTimingAnomaly float64 `json:"revenue_timing_anomaly"`

	BaselineCost   float64 `json:"baseline_cost"`
	ActualGP       float64 `json:"actual_gp"`
	BaselineGP     float64 `json:"baseline_gp"`
	GPGap          float64 `json:"gp_gap"`
	ExplainedGap   float64 `json:"explained_gap"`
	UnexplainedGap float64 `json:"unexplained_gap"`
}
