// Package drivers decomposes the gap between baseline and actual gross profit
// per job into named additive cost drivers. Baseline assumes every hour is
// costed at the department-median rate instead of the rate actually realized.
package drivers

import (
	"sort"

	"github.com/sells-group/jobcost-cli/internal/model"
	"github.com/sells-group/jobcost-cli/internal/normalize"
)

// BuildDriverSummary computes the per-job GP decomposition. Unallocated rows
// are excluded from the cost model but contribute the revenue timing anomaly.
// The unexplained residual is reported as-is, never folded into a driver.
func BuildDriverSummary(rows []model.FactRow) []model.DriverSummary {
	type rated struct {
		row         model.FactRow
		costPerHour float64
		deptForRate string
	}

	work := make([]rated, 0, len(rows))
	ratesByDept := make(map[string][]float64)
	var allRates []float64
	for _, r := range rows {
		if r.UnallocatedRow {
			continue
		}
		w := rated{
			row:         r,
			costPerHour: normalize.SafeDivide(r.ActualCost, r.ActualHours),
			deptForRate: r.DeptActual,
		}
		if w.deptForRate == "" {
			w.deptForRate = r.DeptQuote
		}
		if r.ActualHours > 0 {
			ratesByDept[w.deptForRate] = append(ratesByDept[w.deptForRate], w.costPerHour)
		}
		allRates = append(allRates, w.costPerHour)
		work = append(work, w)
	}

	// Global median over every non-unallocated row, zero-hour rows included,
	// is the fallback for departments with no hour-bearing observations.
	globalRate := normalize.Median(allRates)
	baseline := make(map[string]float64, len(ratesByDept))
	for dept, rates := range ratesByDept {
		baseline[dept] = normalize.Median(rates)
	}

	timing := make(map[string]float64)
	for _, r := range rows {
		if r.UnallocatedRow {
			timing[r.JobNo] += r.RevAlloc
		}
	}

	jobs := make(map[string]*model.DriverSummary)
	var order []string
	for _, w := range work {
		s, ok := jobs[w.row.JobNo]
		if !ok {
			s = &model.DriverSummary{
				JobNo:   w.row.JobNo,
				Client:  w.row.Client,
				JobName: w.row.JobName,
			}
			jobs[w.row.JobNo] = s
			order = append(order, w.row.JobNo)
		}

		rate, ok := baseline[w.deptForRate]
		if !ok {
			rate = globalRate
		}

		s.RevAlloc += w.row.RevAlloc
		s.ActualCost += w.row.ActualCost
		s.ActualHours += w.row.ActualHours
		s.BaselineCost += w.row.ActualHours * rate

		overrun := w.row.ActualHours - w.row.QuotedTime
		if overrun > 0 {
			s.QuotedOverrunCost += overrun * w.costPerHour
		}
		if w.row.UnquotedTask {
			s.UnquotedWorkCost += w.row.ActualCost
		}
		s.RateMixImpact += w.row.ActualHours * (w.costPerHour - rate)
		if w.row.ActualHours > 0 {
			s.NonbillableLeakage += w.row.ActualCost * (1 - w.row.BillableHours/w.row.ActualHours)
		}
	}

	out := make([]model.DriverSummary, 0, len(order))
	for _, job := range order {
		s := jobs[job]
		s.RevenueTimingAnomaly = timing[job]
		s.ActualGP = s.RevAlloc - s.ActualCost
		s.BaselineGP = s.RevAlloc - s.BaselineCost
		s.GPGap = s.BaselineGP - s.ActualGP
		s.ExplainedGap = s.QuotedOverrunCost + s.UnquotedWorkCost + s.RateMixImpact + s.NonbillableLeakage
		s.UnexplainedGap = s.GPGap - s.ExplainedGap
		out = append(out, *s)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].JobNo < out[j].JobNo })
	return out
}
