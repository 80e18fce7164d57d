package qa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/jobcost-cli/internal/model"
)

func cleanFact() []model.FactRow {
	return []model.FactRow{
		{
			JobNo: "J1", TaskName: "design", MonthKey: "2025-01",
			Provenance: model.ProvenanceBoth, DeptActual: "TECH",
			ActualHours: 10, RevenueMonthly: 2000, RevAlloc: 500,
		},
		{
			JobNo: "J1", TaskName: "build", MonthKey: "2025-01",
			Provenance: model.ProvenanceActualOnly, DeptActual: "TECH",
			ActualHours: 30, RevenueMonthly: 2000, RevAlloc: 1500,
		},
	}
}

func TestRun_AllChecksPass(t *testing.T) {
	report := Run(cleanFact(), 0)

	assert.Equal(t, 1, report.Checks[model.CheckFactUniqueKeys])
	assert.Equal(t, 0, report.Checks[model.CheckFactDuplicateCount])
	assert.Equal(t, 1, report.Checks[model.CheckRevenueAllocationPass])
	assert.Equal(t, 0, report.Checks[model.CheckRevenueAllocationFails])
	assert.Equal(t, 0, report.Checks[model.CheckNegativeHoursCount])
	assert.Equal(t, 0, report.Checks[model.CheckMissingDeptActualCount])
	assert.Equal(t, 0, report.Checks[model.CheckUnplacedQuoteOnlyCount])
	assert.Empty(t, report.Warnings)
	assert.True(t, report.Passed())
	assert.NotEmpty(t, report.Timestamp)
}

func TestRun_DuplicateKeys(t *testing.T) {
	fact := cleanFact()
	fact = append(fact, fact[0])

	report := Run(fact, 0)
	assert.Equal(t, 0, report.Checks[model.CheckFactUniqueKeys])
	assert.Equal(t, 1, report.Checks[model.CheckFactDuplicateCount])
	assert.False(t, report.Passed())
	require.NotEmpty(t, report.Warnings)
}

func TestRun_ConservationFailure(t *testing.T) {
	fact := cleanFact()
	fact[1].RevAlloc = 1400 // 100 short of revenue_monthly

	report := Run(fact, 0)
	assert.Equal(t, 0, report.Checks[model.CheckRevenueAllocationPass])
	assert.Equal(t, 1, report.Checks[model.CheckRevenueAllocationFails])
	assert.False(t, report.Passed())
}

func TestRun_ConservationIgnoresQuoteOnlyMonths(t *testing.T) {
	// A quote-only row contributes no revenue and no allocation; its
	// job-month must not be flagged.
	fact := append(cleanFact(), model.FactRow{
		JobNo: "J2", TaskName: "strategy", MonthKey: "2025-03",
		Provenance: model.ProvenanceQuoteOnly, QuotedTime: 20,
	})

	report := Run(fact, 0)
	assert.Equal(t, 1, report.Checks[model.CheckRevenueAllocationPass])
}

func TestRun_ConservationCountsUnallocatedRows(t *testing.T) {
	fact := []model.FactRow{{
		JobNo: "J9", TaskName: model.UnallocatedTask, MonthKey: "2025-04",
		Provenance: model.ProvenanceUnallocated, UnallocatedRow: true,
		RevenueMonthly: 500, RevAlloc: 500,
	}}

	report := Run(fact, 0)
	assert.Equal(t, 1, report.Checks[model.CheckRevenueAllocationPass])
}

func TestRun_NegativeHoursAndMissingDept(t *testing.T) {
	fact := cleanFact()
	fact[0].ActualHours = -1
	fact[1].DeptActual = ""

	report := Run(fact, 0)
	assert.Equal(t, 1, report.Checks[model.CheckNegativeHoursCount])
	assert.Equal(t, 1, report.Checks[model.CheckMissingDeptActualCount])
	assert.False(t, report.Passed())
}

func TestRun_DroppedQuoteOnlyWarning(t *testing.T) {
	report := Run(cleanFact(), 3)

	assert.Equal(t, 3, report.Checks[model.CheckUnplacedQuoteOnlyCount])
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "no resolvable month")
	// Dropped rows warn but do not fail the gate checks.
	assert.True(t, report.Passed())
}
