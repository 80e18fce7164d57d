package ingest

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/jobcost-cli/internal/fetcher"
	"github.com/sells-group/jobcost-cli/internal/model"
	"github.com/sells-group/jobcost-cli/internal/normalize"
)

// Timesheet Data sheet columns.
const (
	colTSJobNo        = "[Job] Job No."
	colTSTaskName     = "[Job Task] Name"
	colTSMonthKey     = "Month Key" // optional, falls back to [Time] Date
	colTSDate         = "[Time] Date"
	colTSTime         = "[Time] Time"
	colTSBaseRate     = "[Task] Base Rate"
	colTSBillableRate = "[Task] Billable Rate"
	colTSBillable     = "Billable?"
	colTSOnshore      = "Onshore"
	colTSDepartment   = "Department"
	colTSStaff        = "[Staff] Name"
	colTSRole         = "Role" // optional
)

// tsGroup accumulates one (job, task, month) group before reduction.
type tsGroup struct {
	row model.TaskMonth

	weightedBase     float64
	weightedBillable float64
	staff            map[string]struct{}
	deptObs          []normalize.Weighted
	roleObs          []normalize.Weighted
}

// BuildTimesheetTaskMonth collapses raw time entries to one row per
// (job, task, month): hours, cost, billable/onshore hours, hour-weighted
// rates, distinct staff, and weighted-mode department and role.
func BuildTimesheetTaskMonth(sheet *fetcher.Sheet, opts Options) ([]model.TaskMonth, error) {
	if err := sheet.Require(colTSJobNo, colTSTaskName, colTSDate, colTSTime,
		colTSBaseRate, colTSBillableRate, colTSDepartment, colTSStaff); err != nil {
		return nil, err
	}

	type key struct{ job, task, month string }
	groups := make(map[key]*tsGroup)
	var order []key
	var skipped int

	for _, row := range sheet.Rows {
		job := normalize.JobNo(sheet.Col(row, colTSJobNo))
		taskRaw := sheet.Col(row, colTSTaskName)
		task := normalize.TaskName(opts.TaskNames.Apply(taskRaw))

		month := ""
		if sheet.Has(colTSMonthKey) {
			month = normalize.ParseMonthKey(sheet.Col(row, colTSMonthKey))
		}
		if month == "" {
			month = normalize.ParseMonthKey(sheet.Col(row, colTSDate))
		}
		if job == "" || task == "" || month == "" {
			skipped++
			continue
		}

		hours := parseNumber(sheet.Col(row, colTSTime))
		if hours < 0 {
			hours = 0
		}
		baseRate := parseNumber(sheet.Col(row, colTSBaseRate))
		billableRate := parseNumber(sheet.Col(row, colTSBillableRate))
		dept := normalize.Department(opts.Departments.Apply(sheet.Col(row, colTSDepartment)))

		k := key{job, task, month}
		g, ok := groups[k]
		if !ok {
			g = &tsGroup{
				row: model.TaskMonth{
					JobNo:       job,
					TaskName:    task,
					MonthKey:    month,
					JobNoRaw:    normalize.Text(sheet.Col(row, colTSJobNo)),
					TaskNameRaw: normalize.Text(taskRaw),
				},
				staff: make(map[string]struct{}),
			}
			groups[k] = g
			order = append(order, k)
		}

		g.row.ActualHours += hours
		g.row.ActualCost += hours * baseRate
		g.weightedBase += baseRate * hours
		g.weightedBillable += billableRate * hours

		if normalize.Truthy(sheet.Col(row, colTSBillable)) {
			g.row.BillableHours += hours
		}
		if normalize.Truthy(sheet.Col(row, colTSOnshore)) {
			g.row.OnshoreHours += hours
		}

		if staff := normalize.Text(sheet.Col(row, colTSStaff)); staff != "" {
			g.staff[staff] = struct{}{}
		}
		g.deptObs = append(g.deptObs, normalize.Weighted{Value: dept, Weight: hours})
		if sheet.Has(colTSRole) {
			g.roleObs = append(g.roleObs, normalize.Weighted{Value: normalize.Text(sheet.Col(row, colTSRole)), Weight: hours})
		}
	}

	out := make([]model.TaskMonth, 0, len(order))
	for _, k := range order {
		g := groups[k]
		tm := g.row
		tm.AvgBaseRate = normalize.SafeDivide(g.weightedBase, tm.ActualHours)
		tm.AvgBillableRate = normalize.SafeDivide(g.weightedBillable, tm.ActualHours)
		tm.DistinctStaff = len(g.staff)
		tm.DeptActual, tm.DeptTopShare, tm.DeptMixed = normalize.WeightedAttribute(g.deptObs)
		if len(g.roleObs) > 0 {
			tm.RoleTop, tm.RoleTopShare, tm.RoleMixed = normalize.WeightedAttribute(g.roleObs)
		}
		out = append(out, tm)
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

	zap.L().Info("ingest: timesheet aggregated",
		zap.Int("rows_in", len(sheet.Rows)),
		zap.Int("task_months", len(out)),
		zap.Int("skipped", skipped),
	)
	return out, nil
}
