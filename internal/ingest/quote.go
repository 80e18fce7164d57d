package ingest

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/jobcost-cli/internal/fetcher"
	"github.com/sells-group/jobcost-cli/internal/model"
	"github.com/sells-group/jobcost-cli/internal/normalize"
)

// Quotation Data sheet columns.
const (
	colQTJobNo         = "[Job] Job No."
	colQTTaskName      = "[Job Task] Name"
	colQTQuotedTime    = "[Job Task] Quoted Time"
	colQTQuotedAmount  = "[Job Task] Quoted Amount"
	colQTDepartment    = "Department"
	colQTProduct       = "Product"
	colQTClient        = "[Job] Client"
	colQTJobName       = "[Job] Name"
	colQTJobStatus     = "[Job] Status"
	colQTJobCategory   = "[Job] Category"
	colQTTaskStartDate = "[Job Task] Start Date"
	colQTJobStartDate  = "[Job] Start Date"
	colQTTaskDueDate   = "[Job Task] Due Date"
	colQTJobDueDate    = "[Job] Due Date"
)

// qtGroup accumulates one (job, task) quote group before reduction.
type qtGroup struct {
	row     model.QuoteTask
	deptObs []normalize.Weighted
}

// BuildQuoteTask collapses quote lines to one row per (job, task): summed
// quoted time and amount, weighted-mode quote department, and first-seen job
// metadata. The quote month key comes from the task/job start date, falling
// back to the due date; it stays empty when no date resolves.
func BuildQuoteTask(sheet *fetcher.Sheet, opts Options) ([]model.QuoteTask, error) {
	if err := sheet.Require(colQTJobNo, colQTTaskName, colQTQuotedTime, colQTQuotedAmount); err != nil {
		return nil, err
	}

	type key struct{ job, task string }
	groups := make(map[key]*qtGroup)
	var order []key
	var skipped int

	for _, row := range sheet.Rows {
		job := normalize.JobNo(sheet.Col(row, colQTJobNo))
		task := normalize.TaskName(opts.TaskNames.Apply(sheet.Col(row, colQTTaskName)))
		if job == "" || task == "" {
			skipped++
			continue
		}

		quotedTime := parseNumber(sheet.Col(row, colQTQuotedTime))
		if quotedTime < 0 {
			quotedTime = 0
		}
		quotedAmount := parseNumber(sheet.Col(row, colQTQuotedAmount))
		if quotedAmount < 0 {
			quotedAmount = 0
		}
		dept := normalize.Department(opts.Departments.Apply(sheet.Col(row, colQTDepartment)))

		k := key{job, task}
		g, ok := groups[k]
		if !ok {
			g = &qtGroup{row: model.QuoteTask{JobNo: job, TaskName: task}}
			groups[k] = g
			order = append(order, k)
		}

		g.row.QuotedTime += quotedTime
		g.row.QuotedAmount += quotedAmount

		// Zero-time lines still vote for the department, with unit weight.
		w := quotedTime
		if w == 0 {
			w = 1
		}
		g.deptObs = append(g.deptObs, normalize.Weighted{Value: dept, Weight: w})

		g.row.Client = firstNonEmpty(g.row.Client, normalize.Text(sheet.Col(row, colQTClient)))
		g.row.Product = firstNonEmpty(g.row.Product, normalize.Text(sheet.Col(row, colQTProduct)))
		g.row.JobName = firstNonEmpty(g.row.JobName, normalize.Text(sheet.Col(row, colQTJobName)))
		g.row.JobStatus = firstNonEmpty(g.row.JobStatus, normalize.Text(sheet.Col(row, colQTJobStatus)))
		g.row.JobCategory = firstNonEmpty(g.row.JobCategory, normalize.Text(sheet.Col(row, colQTJobCategory)))
		g.row.QuoteMonthKey = firstNonEmpty(g.row.QuoteMonthKey, quoteMonth(sheet, row))
	}

	out := make([]model.QuoteTask, 0, len(order))
	for _, k := range order {
		g := groups[k]
		qt := g.row
		qt.DeptQuote, _ = normalize.WeightedMode(g.deptObs)
		out = append(out, qt)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].JobNo != out[j].JobNo {
			return out[i].JobNo < out[j].JobNo
		}
		return out[i].TaskName < out[j].TaskName
	})

	zap.L().Info("ingest: quotes aggregated",
		zap.Int("rows_in", len(sheet.Rows)),
		zap.Int("job_tasks", len(out)),
		zap.Int("skipped", skipped),
	)
	return out, nil
}

// quoteMonth places a quote line on the month axis: task start date, then job
// start date, then task due date, then job due date.
func quoteMonth(sheet *fetcher.Sheet, row []string) string {
	for _, col := range []string{colQTTaskStartDate, colQTJobStartDate, colQTTaskDueDate, colQTJobDueDate} {
		if !sheet.Has(col) {
			continue
		}
		if mk := normalize.ParseMonthKey(sheet.Col(row, col)); mk != "" {
			return mk
		}
	}
	return ""
}
