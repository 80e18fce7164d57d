package fact

import (
	"sort"

	"github.com/sells-group/jobcost-cli/internal/model"
	"github.com/sells-group/jobcost-cli/internal/normalize"
)

// BuildJobMonthSummary rolls the fact table up to (job, month). The monthly
// revenue figure is taken once per group, not summed, since it is replicated
// across every actual-side row.
func BuildJobMonthSummary(rows []model.FactRow) []model.JobMonthSummary {
	type key struct{ job, month string }
	groups := make(map[key][]model.FactRow)
	for _, r := range rows {
		k := key{r.JobNo, r.MonthKey}
		groups[k] = append(groups[k], r)
	}

	out := make([]model.JobMonthSummary, 0, len(groups))
	for k, grp := range groups {
		s := model.JobMonthSummary{JobNo: k.job, MonthKey: k.month}
		s.RevenueMonthly = JobMonthRevenue(grp)
		for _, r := range grp {
			s.RevAlloc += r.RevAlloc
			s.ActualCost += r.ActualCost
			s.ActualHours += r.ActualHours
			s.BillableHours += r.BillableHours
			s.OnshoreHours += r.OnshoreHours
			if r.UnallocatedRow {
				s.UnallocatedRevenue += r.RevAlloc
			}
			if r.UnquotedTask {
				s.UnquotedHours += r.ActualHours
			}
			if r.DeptMismatched {
				s.DeptMismatchHours += r.ActualHours
			}
		}

		s.GP = s.RevAlloc - s.ActualCost
		if s.RevAlloc > 0 {
			s.Margin = s.GP / s.RevAlloc
		}
		s.RevPerHour = normalize.SafeDivide(s.RevAlloc, s.ActualHours)
		s.CostPerHour = normalize.SafeDivide(s.ActualCost, s.ActualHours)
		s.UnquotedShare = normalize.SafeDivide(s.UnquotedHours, s.ActualHours)
		s.DeptMismatchShare = normalize.SafeDivide(s.DeptMismatchHours, s.ActualHours)
		s.BillableShare = normalize.SafeDivide(s.BillableHours, s.ActualHours)
		s.OnshoreShare = normalize.SafeDivide(s.OnshoreHours, s.ActualHours)
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].JobNo != out[j].JobNo {
			return out[i].JobNo < out[j].JobNo
		}
		return out[i].MonthKey < out[j].MonthKey
	})
	return out
}

// BuildJobTotalSummary rolls the fact table up to one row per job and
// left-joins the job's quote totals for attainment.
func BuildJobTotalSummary(rows []model.FactRow, quotes []model.QuoteTask) []model.JobTotalSummary {
	groups := make(map[string][]model.FactRow)
	for _, r := range rows {
		groups[r.JobNo] = append(groups[r.JobNo], r)
	}

	type quoteTotal struct {
		time, amount float64
		client, name string
	}
	totals := make(map[string]quoteTotal)
	for _, qt := range quotes {
		t := totals[qt.JobNo]
		t.time += qt.QuotedTime
		t.amount += qt.QuotedAmount
		if t.client == "" {
			t.client = qt.Client
		}
		if t.name == "" {
			t.name = qt.JobName
		}
		totals[qt.JobNo] = t
	}

	out := make([]model.JobTotalSummary, 0, len(groups))
	for job, grp := range groups {
		s := model.JobTotalSummary{JobNo: job}
		for _, r := range grp {
			s.RevAlloc += r.RevAlloc
			s.ActualCost += r.ActualCost
			s.ActualHours += r.ActualHours
			s.BillableHours += r.BillableHours
			s.OnshoreHours += r.OnshoreHours
			if r.UnallocatedRow {
				s.UnallocatedRevenue += r.RevAlloc
			}
			if r.UnquotedTask {
				s.UnquotedHours += r.ActualHours
			}
			if r.DeptMismatched {
				s.DeptMismatchHours += r.ActualHours
			}
		}

		s.GP = s.RevAlloc - s.ActualCost
		if s.RevAlloc > 0 {
			s.Margin = s.GP / s.RevAlloc
		}
		s.RevPerHour = normalize.SafeDivide(s.RevAlloc, s.ActualHours)
		s.CostPerHour = normalize.SafeDivide(s.ActualCost, s.ActualHours)
		s.UnquotedShare = normalize.SafeDivide(s.UnquotedHours, s.ActualHours)
		s.DeptMismatchShare = normalize.SafeDivide(s.DeptMismatchHours, s.ActualHours)
		s.BillableShare = normalize.SafeDivide(s.BillableHours, s.ActualHours)
		s.OnshoreShare = normalize.SafeDivide(s.OnshoreHours, s.ActualHours)

		t := totals[job]
		s.QuotedTimeTotal = t.time
		s.QuotedAmountTotal = t.amount
		s.QuoteAttainment = normalize.SafeDivide(s.ActualHours, t.time)
		s.Client = t.client
		s.JobName = t.name
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].JobNo < out[j].JobNo })
	return out
}

// BuildJobTaskSummary rolls the fact table up to (job, task) across months.
// Quote figures are replicated per month, so they are taken as the max, not
// summed.
func BuildJobTaskSummary(rows []model.FactRow) []model.JobTaskSummary {
	type key struct{ job, task string }
	groups := make(map[key]*model.JobTaskSummary)
	var order []key
	for _, r := range rows {
		k := key{r.JobNo, r.TaskName}
		s, ok := groups[k]
		if !ok {
			s = &model.JobTaskSummary{JobNo: r.JobNo, TaskName: r.TaskName}
			groups[k] = s
			order = append(order, k)
		}
		s.ActualHours += r.ActualHours
		s.ActualCost += r.ActualCost
		s.RevAlloc += r.RevAlloc
		if r.QuotedTime > s.QuotedTime {
			s.QuotedTime = r.QuotedTime
		}
		if r.QuotedAmount > s.QuotedAmount {
			s.QuotedAmount = r.QuotedAmount
		}
	}

	out := make([]model.JobTaskSummary, 0, len(order))
	for _, k := range order {
		s := groups[k]
		s.GP = s.RevAlloc - s.ActualCost
		if s.RevAlloc > 0 {
			s.Margin = s.GP / s.RevAlloc
		}
		if s.QuotedTime > 0 && s.ActualHours > s.QuotedTime {
			s.OverrunHours = s.ActualHours - s.QuotedTime
		}
		s.CostPerHour = normalize.SafeDivide(s.ActualCost, s.ActualHours)
		s.OverrunCost = s.OverrunHours * s.CostPerHour
		out = append(out, *s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].JobNo != out[j].JobNo {
			return out[i].JobNo < out[j].JobNo
		}
		return out[i].TaskName < out[j].TaskName
	})
	return out
}
