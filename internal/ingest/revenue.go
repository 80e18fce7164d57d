package ingest

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/jobcost-cli/internal/fetcher"
	"github.com/sells-group/jobcost-cli/internal/model"
	"github.com/sells-group/jobcost-cli/internal/normalize"
)

// Monthly Revenue sheet columns.
const (
	colRevJobNumber = "Job Number"
	colRevMonth     = "Month"
	colRevAmount    = "Amount"
	colRevExcluded  = "Excluded"
	colRevFY        = "FY" // optional
)

// BuildRevenueMonthly collapses revenue rows to one amount per (job, month),
// dropping rows flagged excluded. Rows whose month cannot be resolved are
// skipped and counted in the log.
func BuildRevenueMonthly(sheet *fetcher.Sheet) ([]model.RevenueMonth, error) {
	if err := sheet.Require(colRevJobNumber, colRevMonth, colRevAmount, colRevExcluded); err != nil {
		return nil, err
	}

	type key struct{ job, month string }
	totals := make(map[key]*model.RevenueMonth)
	var skipped, excluded int

	for _, row := range sheet.Rows {
		if normalize.TruthyExcluded(sheet.Col(row, colRevExcluded)) {
			excluded++
			continue
		}

		job := normalize.JobNo(sheet.Col(row, colRevJobNumber))
		month := normalize.ParseMonthKey(sheet.Col(row, colRevMonth))
		if job == "" || month == "" {
			skipped++
			continue
		}

		k := key{job, month}
		rm, ok := totals[k]
		if !ok {
			rm = &model.RevenueMonth{JobNo: job, MonthKey: month}
			totals[k] = rm
		}
		rm.Revenue += parseNumber(sheet.Col(row, colRevAmount))
		if sheet.Has(colRevFY) {
			rm.FY = firstNonEmpty(rm.FY, normalize.Text(sheet.Col(row, colRevFY)))
		}
	}

	out := make([]model.RevenueMonth, 0, len(totals))
	for _, rm := range totals {
		out = append(out, *rm)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JobNo != out[j].JobNo {
			return out[i].JobNo < out[j].JobNo
		}
		return out[i].MonthKey < out[j].MonthKey
	})

	zap.L().Info("ingest: revenue aggregated",
		zap.Int("rows_in", len(sheet.Rows)),
		zap.Int("job_months", len(out)),
		zap.Int("excluded", excluded),
		zap.Int("skipped", skipped),
	)
	return out, nil
}
