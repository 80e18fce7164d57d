// Package allocate distributes lump job-month revenue across tasks in
// proportion to logged hours. Allocation is revenue-conserving per
// (job, month): the QA engine verifies this property on every build.
package allocate

import (
	"sort"

	"github.com/sells-group/jobcost-cli/internal/model"
)

type jobMonth struct{ job, month string }

// Allocate left-joins revenue onto the timesheet aggregate by (job, month)
// and splits each month's revenue by task share of hours. Revenue recognized
// in a month with zero logged hours becomes a synthetic __UNALLOCATED__ row;
// the orphan only triggers on nonzero revenue.
func Allocate(timesheet []model.TaskMonth, revenue []model.RevenueMonth) []model.AllocatedRow {
	revByKey := make(map[jobMonth]float64, len(revenue))
	for _, rm := range revenue {
		revByKey[jobMonth{rm.JobNo, rm.MonthKey}] += rm.Revenue
	}

	totalHours := make(map[jobMonth]float64)
	for _, tm := range timesheet {
		totalHours[jobMonth{tm.JobNo, tm.MonthKey}] += tm.ActualHours
	}

	out := make([]model.AllocatedRow, 0, len(timesheet))
	for _, tm := range timesheet {
		k := jobMonth{tm.JobNo, tm.MonthKey}
		row := model.AllocatedRow{
			TaskMonth:      tm,
			RevenueMonthly: revByKey[k],
			TotalJobHours:  totalHours[k],
		}
		if row.TotalJobHours > 0 {
			row.TaskShare = tm.ActualHours / row.TotalJobHours
		}
		row.RevAlloc = row.TaskShare * row.RevenueMonthly
		out = append(out, row)
	}

	// Orphaned revenue: nonzero revenue with no hours that month.
	for _, rm := range revenue {
		k := jobMonth{rm.JobNo, rm.MonthKey}
		if rm.Revenue == 0 || totalHours[k] > 0 {
			continue
		}
		out = append(out, model.AllocatedRow{
			TaskMonth: model.TaskMonth{
				JobNo:    rm.JobNo,
				TaskName: model.UnallocatedTask,
				MonthKey: rm.MonthKey,
			},
			RevenueMonthly: rm.Revenue,
			RevAlloc:       rm.Revenue,
			Unallocated:    true,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].JobNo != out[j].JobNo {
			return out[i].JobNo < out[j].JobNo
		}
		if out[i].TaskName != out[j].TaskName {
			return out[i].TaskName < out[j].TaskName
		}
		return out[i].MonthKey < out[j].MonthKey
	})
	return out
}

// ConservationDelta returns, per (job, month), the absolute difference
// between the month's revenue and the sum of allocated revenue. Used by
// tests; the QA engine performs the production check on the fact table.
func ConservationDelta(rows []model.AllocatedRow) map[string]float64 {
	revenue := make(map[jobMonth]float64)
	allocated := make(map[jobMonth]float64)
	for _, r := range rows {
		k := jobMonth{r.JobNo, r.MonthKey}
		revenue[k] = r.RevenueMonthly
		allocated[k] += r.RevAlloc
	}

	out := make(map[string]float64, len(revenue))
	for k, rev := range revenue {
		delta := rev - allocated[k]
		if delta < 0 {
			delta = -delta
		}
		out[k.job+"|"+k.month] = delta
	}
	return out
}
