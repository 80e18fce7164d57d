package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobNo(t *testing.T) {
	assert.Equal(t, "J-1001", JobNo("  j-1001 "))
	assert.Equal(t, "J 1001", JobNo("j \t 1001"))
	assert.Equal(t, "", JobNo("   "))
}

func TestTaskName(t *testing.T) {
	assert.Equal(t, "design review", TaskName(" Design   Review "))
	assert.Equal(t, "build", TaskName("BUILD"))
}

func TestDepartment(t *testing.T) {
	assert.Equal(t, "CREATIVE", Department("creative "))
}

func TestTruthy(t *testing.T) {
	for _, s := range []string{"Y", "yes", "TRUE", "1", " y "} {
		assert.True(t, Truthy(s), s)
	}
	for _, s := range []string{"", "N", "no", "0", "maybe"} {
		assert.False(t, Truthy(s), s)
	}
}

func TestTruthyExcluded(t *testing.T) {
	assert.True(t, TruthyExcluded("EXCLUDE"))
	assert.True(t, TruthyExcluded("excluded"))
	assert.True(t, TruthyExcluded("yes"))
	assert.False(t, TruthyExcluded("include"))
}

func TestParseMonthKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-01-15", "2025-01"},
		{"2025-01", "2025-01"},
		{"1/15/2025", "2025-01"},
		{"2025-01-15 00:00:00", "2025-01"},
		{"", ""},
		{"not a date", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseMonthKey(tc.in), tc.in)
	}
}

func TestFYLabel(t *testing.T) {
	assert.Equal(t, "FY25", FYLabel("2025-06"))
	assert.Equal(t, "FY26", FYLabel("2025-07"))
	assert.Equal(t, "FY26", FYLabel("2026-01"))
	assert.Equal(t, "", FYLabel("bogus"))
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "ALL", PeriodLabel("", "2025-06"))
	assert.Equal(t, "2025-01_to_2025-06", PeriodLabel("2025-01", "2025-06"))
}

func TestWeightedMode(t *testing.T) {
	top, share := WeightedMode([]Weighted{
		{Value: "CREATIVE", Weight: 6},
		{Value: "DIGITAL", Weight: 4},
	})
	assert.Equal(t, "CREATIVE", top)
	assert.InDelta(t, 0.6, share, 1e-9)
}

func TestWeightedMode_TieFirstSeen(t *testing.T) {
	top, share := WeightedMode([]Weighted{
		{Value: "B", Weight: 5},
		{Value: "A", Weight: 5},
	})
	assert.Equal(t, "B", top)
	assert.InDelta(t, 0.5, share, 1e-9)
}

func TestWeightedMode_IgnoresEmpty(t *testing.T) {
	top, share := WeightedMode([]Weighted{
		{Value: "  ", Weight: 100},
		{Value: "A", Weight: 1},
	})
	assert.Equal(t, "A", top)
	assert.InDelta(t, 1.0, share, 1e-9)
}

func TestWeightedMode_AllEmpty(t *testing.T) {
	top, share := WeightedMode([]Weighted{{Value: "", Weight: 3}})
	assert.Equal(t, "", top)
	assert.Equal(t, 0.0, share)
}

func TestWeightedAttribute_Mixed(t *testing.T) {
	_, _, mixed := WeightedAttribute([]Weighted{
		{Value: "A", Weight: 6},
		{Value: "B", Weight: 4},
	})
	assert.True(t, mixed)

	_, _, mixed = WeightedAttribute([]Weighted{
		{Value: "A", Weight: 9},
		{Value: "B", Weight: 1},
	})
	assert.False(t, mixed)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 3.0, Median([]float64{3}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 2, 3}))
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
}

func TestPercentile(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	assert.InDelta(t, 3.25, Percentile(xs, 75), 1e-9)
	assert.InDelta(t, 3.7, Percentile(xs, 90), 1e-9)
	assert.Equal(t, 4.0, Percentile(xs, 100))
	assert.Equal(t, 1.0, Percentile(xs, 0))
}

func TestStd(t *testing.T) {
	assert.Equal(t, 0.0, Std(nil))
	assert.InDelta(t, 2.0, Std([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 0.0, SafeDivide(5, 0))
	assert.Equal(t, 2.5, SafeDivide(5, 2))
}
