// Package fact reconciles allocated actuals with quotes into the canonical
// job x task x month fact table and rolls it up into the summary tables.
package fact

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/jobcost-cli/internal/model"
	"github.com/sells-group/jobcost-cli/internal/normalize"
)

// Result is the fact table plus the quote-only tasks that could not be placed
// on the month axis. Dropped rows are surfaced to QA, never silently lost.
type Result struct {
	Rows             []model.FactRow
	DroppedQuoteOnly []model.QuoteTask
}

// Build performs the three-way set reconciliation: allocated actuals
// (including unallocated orphans) outer-joined with quotes on (job, task).
// Quote-only tasks are materialized on their quote month; actual-only rows
// keep zero quote figures.
func Build(allocated []model.AllocatedRow, quotes []model.QuoteTask) Result {
	type key struct{ job, task string }

	quoteByKey := make(map[key]model.QuoteTask, len(quotes))
	for _, qt := range quotes {
		quoteByKey[key{qt.JobNo, qt.TaskName}] = qt
	}

	actualKeys := make(map[key]struct{}, len(allocated))
	for _, ar := range allocated {
		actualKeys[key{ar.JobNo, ar.TaskName}] = struct{}{}
	}

	var res Result
	res.Rows = make([]model.FactRow, 0, len(allocated)+len(quotes))

	for _, ar := range allocated {
		row := model.FactRow{
			JobNo:           ar.JobNo,
			TaskName:        ar.TaskName,
			MonthKey:        ar.MonthKey,
			ActualHours:     ar.ActualHours,
			ActualCost:      ar.ActualCost,
			BillableHours:   ar.BillableHours,
			OnshoreHours:    ar.OnshoreHours,
			AvgBaseRate:     ar.AvgBaseRate,
			AvgBillableRate: ar.AvgBillableRate,
			DistinctStaff:   ar.DistinctStaff,
			RevenueMonthly:  ar.RevenueMonthly,
			TotalJobHours:   ar.TotalJobHours,
			TaskShare:       ar.TaskShare,
			RevAlloc:        ar.RevAlloc,
			UnallocatedRow:  ar.Unallocated,
			DeptActual:      ar.DeptActual,
			DeptTopShare:    ar.DeptTopShare,
			MixedDepartment: ar.DeptMixed,
		}

		if qt, ok := quoteByKey[key{ar.JobNo, ar.TaskName}]; ok {
			row.Provenance = model.ProvenanceBoth
			applyQuote(&row, qt)
		} else {
			row.Provenance = model.ProvenanceActualOnly
		}
		if ar.Unallocated {
			row.Provenance = model.ProvenanceUnallocated
		}

		derive(&row)
		res.Rows = append(res.Rows, row)
	}

	for _, qt := range quotes {
		if _, ok := actualKeys[key{qt.JobNo, qt.TaskName}]; ok {
			continue
		}
		if qt.QuoteMonthKey == "" {
			res.DroppedQuoteOnly = append(res.DroppedQuoteOnly, qt)
			continue
		}

		row := model.FactRow{
			JobNo:      qt.JobNo,
			TaskName:   qt.TaskName,
			MonthKey:   qt.QuoteMonthKey,
			Provenance: model.ProvenanceQuoteOnly,
		}
		applyQuote(&row, qt)
		derive(&row)
		res.Rows = append(res.Rows, row)
	}

	sort.Slice(res.Rows, func(i, j int) bool {
		a, b := res.Rows[i], res.Rows[j]
		if a.JobNo != b.JobNo {
			return a.JobNo < b.JobNo
		}
		if a.TaskName != b.TaskName {
			return a.TaskName < b.TaskName
		}
		return a.MonthKey < b.MonthKey
	})

	if len(res.DroppedQuoteOnly) > 0 {
		zap.L().Warn("fact: quote-only tasks dropped, no resolvable month",
			zap.Int("count", len(res.DroppedQuoteOnly)),
		)
	}
	return res
}

func applyQuote(row *model.FactRow, qt model.QuoteTask) {
	row.QuotedTime = qt.QuotedTime
	row.QuotedAmount = qt.QuotedAmount
	row.DeptQuote = qt.DeptQuote
	row.Client = qt.Client
	row.Product = qt.Product
	row.JobName = qt.JobName
	row.JobStatus = qt.JobStatus
	row.JobCategory = qt.JobCategory
}

// derive fills every computed column from the joined base fields.
func derive(row *model.FactRow) {
	row.GP = row.RevAlloc - row.ActualCost
	if row.RevAlloc > 0 {
		row.Margin = row.GP / row.RevAlloc
	}

	if row.QuotedTime > 0 && row.ActualHours > row.QuotedTime {
		row.HourOverrun = row.ActualHours - row.QuotedTime
	}
	row.UnquotedTask = row.QuotedTime == 0 && row.ActualHours > 0
	row.QuoteOnlyTask = row.QuotedTime > 0 && row.ActualHours == 0

	row.RevPerHour = normalize.SafeDivide(row.RevAlloc, row.ActualHours)
	row.CostPerHour = normalize.SafeDivide(row.ActualCost, row.ActualHours)

	row.DeptReporting = row.DeptActual
	if row.DeptReporting == "" {
		row.DeptReporting = row.DeptQuote
	}
	row.DeptStatus = classifyDept(row)
	row.DeptMismatched = row.DeptStatus == model.DeptMismatch
}

// classifyDept evaluates the ordered department classification; later
// conditions override earlier ones, with the quote-only and actual-only
// overrides applied last.
func classifyDept(row *model.FactRow) model.DeptMatchStatus {
	status := model.DeptMatch
	switch {
	case row.DeptQuote == "" && row.DeptActual != "":
		status = model.DeptMissingQuoteDept
	case row.DeptQuote != "" && row.DeptActual == "":
		status = model.DeptMissingActualDept
	case row.DeptQuote != "" && row.DeptActual != "" && row.DeptQuote != row.DeptActual:
		status = model.DeptMismatch
	}
	if row.QuoteOnlyTask {
		status = model.DeptQuoteOnlyTask
	}
	if row.UnquotedTask && row.DeptActual != "" {
		status = model.DeptActualOnlyTask
	}
	return status
}

// JobMonthRevenue returns the job-month revenue figure for a group of fact
// rows sharing a (job, month). The value is replicated across every row that
// came from the actual side; quote-only rows carry zero.
func JobMonthRevenue(rows []model.FactRow) float64 {
	for _, r := range rows {
		if r.Provenance != model.ProvenanceQuoteOnly {
			return r.RevenueMonthly
		}
	}
	return 0
}
