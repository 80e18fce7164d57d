package model

// CatalogEntry holds per (department, product, task) benchmarks derived from
// historical job-task instances.
type CatalogEntry struct {
	Dept     string `json:"dept"`
	Product  string `json:"product"`
	TaskName string `json:"task_name"`

	TaskFreqJobs  int     `json:"task_freq_jobs"`
	JobCount      int     `json:"job_count"`
	TaskFreqShare float64 `json:"task_freq_share"`

	HoursPerJobMedian float64 `json:"hours_per_job_median"`
	HoursPerJobMean   float64 `json:"hours_per_job_mean"`
	HoursPerJobP75    float64 `json:"hours_per_job_p75"`
	HoursPerJobP90    float64 `json:"hours_per_job_p90"`

	CostPerHourMedian float64 `json:"cost_per_hour_median"`
	RevPerHourMedian  float64 `json:"rev_per_hour_median"`

	OverrunRate      float64 `json:"overrun_rate"`
	UnquotedRate     float64 `json:"unquoted_rate"`
	DeptMismatchRate float64 `json:"dept_mismatch_rate"`
	Volatility       float64 `json:"volatility"`
	RiskScore        float64 `json:"risk_score"`

	PeriodLabel string `json:"period_label"`
}

// JobTemplate is the recommended task list for a (department, product) segment
// with expected whole-job hours.
type JobTemplate struct {
	Dept    string `json:"dept"`
	Product string `json:"product"`

	RecommendedTasks []string `json:"recommended_tasks"`

	ExpectedHoursMedian float64 `json:"expected_hours_median"`
	ExpectedHoursP75    float64 `json:"expected_hours_p75"`
	ExpectedHoursP90    float64 `json:"expected_hours_p90"`

	PeriodLabel string `json:"period_label"`
}

// CompScore is one comparable job with its task-set Jaccard similarity.
type CompScore struct {
	JobNo string  `json:"job_no"`
	Score float64 `json:"score"`
}

// JobComps ranks the most similar jobs within a job's segment.
type JobComps struct {
	JobNo   string      `json:"job_no"`
	Dept    string      `json:"dept"`
	Product string      `json:"product"`
	Comps   []CompScore `json:"comps"`
}

// QuotePolicy selects how aggressively suggested hours track history.
type QuotePolicy string

const (
	PolicyAggressive   QuotePolicy = "aggressive"   // median hours
	PolicyBalanced     QuotePolicy = "balanced"     // median x 1.1
	PolicyConservative QuotePolicy = "conservative" // p75 hours
)

// QuoteLine is one recommended task on a smart quote.
type QuoteLine struct {
	TaskName       string  `json:"task_name"`
	TaskFreqShare  float64 `json:"task_freq_share"`
	SuggestedHours float64 `json:"suggested_hours"`
	CostPerHour    float64 `json:"cost_per_hour_median"`
	ExpectedCost   float64 `json:"expected_cost"`
	PriceGuardrail float64 `json:"price_guardrail"`
	RiskScore      float64 `json:"risk_score"`
	RiskFlag       string  `json:"risk_flag"` // HIGH or MEDIUM vs segment median
}

// QuoteRecommendation is a priced task list for one segment under a policy.
type QuoteRecommendation struct {
	Dept         string      `json:"dept"`
	Product      string      `json:"product"`
	Policy       QuotePolicy `json:"policy"`
	TargetMargin float64     `json:"target_margin"`

	Lines          []QuoteLine `json:"lines"`
	ExpectedCost   float64     `json:"expected_cost"`
	GuardrailPrice float64     `json:"guardrail_price"`
}
