package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/jobcost-cli/internal/config"
	"github.com/sells-group/jobcost-cli/internal/model"
)

func defaultSmartQuote() config.SmartQuoteConfig {
	return config.SmartQuoteConfig{
		CoverageTarget: 0.8,
		RiskWeights: config.RiskWeights{
			OverrunRate:  0.4,
			Volatility:   0.4,
			UnquotedRate: 0.2,
		},
		TargetMargin: 0.3,
	}
}

func factRow(job, task, month string, hours, cost, revAlloc, quoted float64) model.FactRow {
	return model.FactRow{
		JobNo:         job,
		TaskName:      task,
		MonthKey:      month,
		ActualHours:   hours,
		ActualCost:    cost,
		RevAlloc:      revAlloc,
		QuotedTime:    quoted,
		DeptReporting: "TECH",
		Product:       "Web",
	}
}

func TestBuildTaskCatalog_SegmentStats(t *testing.T) {
	rows := []model.FactRow{
		// build appears on both jobs, design on one of two.
		factRow("J1", "build", "2025-01", 10, 500, 800, 8),
		factRow("J1", "build", "2025-02", 10, 500, 800, 8),
		factRow("J1", "design", "2025-01", 4, 200, 300, 4),
		factRow("J2", "build", "2025-01", 30, 1200, 2000, 40),
	}

	catalog := BuildTaskCatalog(rows, defaultSmartQuote(), Window{})
	require.Len(t, catalog, 2)

	build := catalog[0]
	assert.Equal(t, "build", build.TaskName)
	assert.Equal(t, 2, build.TaskFreqJobs)
	assert.Equal(t, 2, build.JobCount)
	assert.Equal(t, 1.0, build.TaskFreqShare)
	// Instances: J1 20h (months summed), J2 30h.
	assert.InDelta(t, 25.0, build.HoursPerJobMedian, 1e-9)
	assert.InDelta(t, 25.0, build.HoursPerJobMean, 1e-9)
	// J1: 1000/20 = 50, J2: 1200/30 = 40.
	assert.InDelta(t, 45.0, build.CostPerHourMedian, 1e-9)
	// J1 overran (20 > 8), J2 did not (30 < 40).
	assert.InDelta(t, 0.5, build.OverrunRate, 1e-9)
	assert.Equal(t, 0.0, build.UnquotedRate)
	// std([20,30])/mean = 5/25.
	assert.InDelta(t, 0.2, build.Volatility, 1e-9)
	assert.InDelta(t, 0.5*0.4+0.2*0.4, build.RiskScore, 1e-9)
	assert.Equal(t, "ALL", build.PeriodLabel)

	design := catalog[1]
	assert.Equal(t, 1, design.TaskFreqJobs)
	assert.InDelta(t, 0.5, design.TaskFreqShare, 1e-9)
}

func TestBuildTaskCatalog_WindowScoping(t *testing.T) {
	rows := []model.FactRow{
		factRow("J1", "build", "2025-01", 10, 500, 800, 0),
		factRow("J1", "build", "2025-06", 90, 900, 900, 0),
	}

	catalog := BuildTaskCatalog(rows, defaultSmartQuote(), Window{Start: "2025-01", End: "2025-03"})
	require.Len(t, catalog, 1)
	assert.InDelta(t, 10.0, catalog[0].HoursPerJobMedian, 1e-9)
	assert.Equal(t, "2025-01_to_2025-03", catalog[0].PeriodLabel)
}

func TestBuildTaskCatalog_SkipsUnallocatedRows(t *testing.T) {
	rows := []model.FactRow{
		{JobNo: "J1", TaskName: model.UnallocatedTask, MonthKey: "2025-01", RevAlloc: 500, UnallocatedRow: true},
	}
	catalog := BuildTaskCatalog(rows, defaultSmartQuote(), Window{})
	assert.Empty(t, catalog)
}

func TestBuildTemplateLibrary_CoveragePrefix(t *testing.T) {
	cfg := defaultSmartQuote()
	catalog := []model.CatalogEntry{
		{Dept: "TECH", Product: "Web", TaskName: "a", TaskFreqShare: 0.5},
		{Dept: "TECH", Product: "Web", TaskName: "b", TaskFreqShare: 0.3},
		{Dept: "TECH", Product: "Web", TaskName: "c", TaskFreqShare: 0.2},
	}

	tmpl := BuildTemplateLibrary(nil, catalog, cfg, Window{})
	require.Len(t, tmpl, 1)
	// 0.5 + 0.3 = 0.8 <= target, adding c would exceed it.
	assert.Equal(t, []string{"a", "b"}, tmpl[0].RecommendedTasks)
}

func TestBuildTemplateLibrary_FallbackTopTasks(t *testing.T) {
	cfg := defaultSmartQuote()
	catalog := []model.CatalogEntry{
		{Dept: "TECH", Product: "Web", TaskName: "a", TaskFreqShare: 0.9},
		{Dept: "TECH", Product: "Web", TaskName: "b", TaskFreqShare: 0.85},
	}

	tmpl := BuildTemplateLibrary(nil, catalog, cfg, Window{})
	require.Len(t, tmpl, 1)
	// First task alone exceeds the target: fall back to the top tasks.
	assert.Equal(t, []string{"a", "b"}, tmpl[0].RecommendedTasks)
}

func TestBuildTemplateLibrary_ExpectedHours(t *testing.T) {
	cfg := defaultSmartQuote()
	rows := []model.FactRow{
		factRow("J1", "a", "2025-01", 10, 0, 0, 0),
		factRow("J1", "b", "2025-01", 10, 0, 0, 0),
		factRow("J2", "a", "2025-01", 40, 0, 0, 0),
	}
	catalog := BuildTaskCatalog(rows, cfg, Window{})

	tmpl := BuildTemplateLibrary(rows, catalog, cfg, Window{})
	require.Len(t, tmpl, 1)
	// Job totals: J1=20, J2=40.
	assert.InDelta(t, 30.0, tmpl[0].ExpectedHoursMedian, 1e-9)
	assert.InDelta(t, 35.0, tmpl[0].ExpectedHoursP75, 1e-9)
}

func TestJaccard(t *testing.T) {
	set := func(tasks ...string) map[string]struct{} {
		s := make(map[string]struct{})
		for _, task := range tasks {
			s[task] = struct{}{}
		}
		return s
	}

	assert.Equal(t, 0.0, Jaccard(set(), set()))
	assert.Equal(t, 1.0, Jaccard(set("a", "b"), set("a", "b")))
	assert.InDelta(t, 1.0/3.0, Jaccard(set("a", "b"), set("b", "c")), 1e-9)
	assert.Equal(t, 0.0, Jaccard(set("a"), set("b")))

	for _, pair := range [][2]map[string]struct{}{
		{set("a"), set()},
		{set("a", "b", "c"), set("b")},
	} {
		score := Jaccard(pair[0], pair[1])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestBuildJobComps_RankedWithinSegment(t *testing.T) {
	rows := []model.FactRow{
		factRow("J1", "a", "2025-01", 1, 0, 0, 0),
		factRow("J1", "b", "2025-01", 1, 0, 0, 0),
		factRow("J2", "a", "2025-01", 1, 0, 0, 0),
		factRow("J2", "b", "2025-01", 1, 0, 0, 0),
		factRow("J3", "a", "2025-01", 1, 0, 0, 0),
	}
	// Different segment, must never appear in TECH comps.
	other := factRow("J9", "a", "2025-01", 1, 0, 0, 0)
	other.DeptReporting = "MEDIA"
	rows = append(rows, other)

	comps := BuildJobComps(rows, 10)
	require.Len(t, comps, 4)

	j1 := comps[0]
	assert.Equal(t, "J1", j1.JobNo)
	require.Len(t, j1.Comps, 2)
	assert.Equal(t, "J2", j1.Comps[0].JobNo)
	assert.Equal(t, 1.0, j1.Comps[0].Score)
	assert.Equal(t, "J3", j1.Comps[1].JobNo)
	assert.InDelta(t, 0.5, j1.Comps[1].Score, 1e-9)

	j9 := comps[3]
	assert.Equal(t, "J9", j9.JobNo)
	assert.Empty(t, j9.Comps)
}

func TestBuildJobComps_TopNTruncation(t *testing.T) {
	var rows []model.FactRow
	jobs := []string{"J1", "J2", "J3", "J4"}
	for _, job := range jobs {
		rows = append(rows, factRow(job, "a", "2025-01", 1, 0, 0, 0))
	}

	comps := BuildJobComps(rows, 2)
	require.Len(t, comps, 4)
	for _, c := range comps {
		assert.Len(t, c.Comps, 2)
	}
}

func TestBuildJobComps_ZeroHourTasksExcludedFromSets(t *testing.T) {
	rows := []model.FactRow{
		factRow("J1", "a", "2025-01", 1, 0, 0, 0),
		factRow("J2", "a", "2025-01", 0, 0, 0, 5), // quote-only, no hours
	}

	comps := BuildJobComps(rows, 10)
	require.Len(t, comps, 2)
	// J2's task set is empty: one empty set makes the union nonzero.
	assert.Equal(t, 0.0, comps[0].Comps[0].Score)
}

func TestRecommend_Policies(t *testing.T) {
	cfg := defaultSmartQuote()
	catalog := []model.CatalogEntry{
		{
			Dept: "TECH", Product: "Web", TaskName: "a",
			TaskFreqShare: 0.6, HoursPerJobMedian: 10, HoursPerJobP75: 16,
			CostPerHourMedian: 50, RiskScore: 0.5,
		},
		{
			Dept: "TECH", Product: "Web", TaskName: "b",
			TaskFreqShare: 0.2, HoursPerJobMedian: 4, HoursPerJobP75: 6,
			CostPerHourMedian: 40, RiskScore: 0.1,
		},
	}

	tests := []struct {
		policy    model.QuotePolicy
		wantHours float64 // for task "a"
	}{
		{model.PolicyAggressive, 10},
		{model.PolicyBalanced, 11},
		{model.PolicyConservative, 16},
	}
	for _, tc := range tests {
		t.Run(string(tc.policy), func(t *testing.T) {
			rec, err := Recommend(catalog, "TECH", "Web", tc.policy, cfg)
			require.NoError(t, err)
			require.Len(t, rec.Lines, 2)
			assert.Equal(t, "a", rec.Lines[0].TaskName)
			assert.InDelta(t, tc.wantHours, rec.Lines[0].SuggestedHours, 1e-9)
		})
	}
}

func TestRecommend_PricingAndRiskFlags(t *testing.T) {
	cfg := defaultSmartQuote()
	catalog := []model.CatalogEntry{
		{
			Dept: "TECH", Product: "Web", TaskName: "a",
			TaskFreqShare: 0.6, HoursPerJobMedian: 10,
			CostPerHourMedian: 50, RiskScore: 0.5,
		},
		{
			Dept: "TECH", Product: "Web", TaskName: "b",
			TaskFreqShare: 0.2, HoursPerJobMedian: 4,
			CostPerHourMedian: 40, RiskScore: 0.1,
		},
	}

	rec, err := Recommend(catalog, "TECH", "Web", model.PolicyAggressive, cfg)
	require.NoError(t, err)

	a, b := rec.Lines[0], rec.Lines[1]
	assert.InDelta(t, 500.0, a.ExpectedCost, 1e-9)
	// Guardrail guarantees the target margin: cost / (1 - 0.3).
	assert.InDelta(t, 500.0/0.7, a.PriceGuardrail, 1e-9)
	assert.Equal(t, "HIGH", a.RiskFlag) // 0.5 > median(0.5, 0.1) = 0.3
	assert.Equal(t, "MEDIUM", b.RiskFlag)

	assert.InDelta(t, a.ExpectedCost+b.ExpectedCost, rec.ExpectedCost, 1e-9)
	assert.InDelta(t, a.PriceGuardrail+b.PriceGuardrail, rec.GuardrailPrice, 1e-9)
}

func TestRecommend_UnknownSegment(t *testing.T) {
	_, err := Recommend(nil, "TECH", "Web", model.PolicyBalanced, defaultSmartQuote())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog entries")
}

func TestRecommend_UnknownPolicy(t *testing.T) {
	catalog := []model.CatalogEntry{{Dept: "TECH", Product: "Web", TaskName: "a", TaskFreqShare: 0.5}}
	_, err := Recommend(catalog, "TECH", "Web", model.QuotePolicy("bold"), defaultSmartQuote())
	require.Error(t, err)
}
