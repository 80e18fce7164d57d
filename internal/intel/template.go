package intel

import (
	"sort"

	"github.com/sells-group/jobcost-cli/internal/config"
	"github.com/sells-group/jobcost-cli/internal/model"
	"github.com/sells-group/jobcost-cli/internal/normalize"
)

// templateFallbackTasks caps the recommended list when the very first task
// already exceeds the coverage target.
const templateFallbackTasks = 5

// coveragePrefix returns the leading tasks of a frequency-sorted catalog
// segment whose cumulative frequency share stays within target. An empty
// prefix falls back to the top tasks.
func coveragePrefix(entries []model.CatalogEntry, target float64, fallback int) []model.CatalogEntry {
	sorted := make([]model.CatalogEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TaskFreqShare > sorted[j].TaskFreqShare
	})

	var prefix []model.CatalogEntry
	var cum float64
	for _, e := range sorted {
		cum += e.TaskFreqShare
		if cum > target {
			break
		}
		prefix = append(prefix, e)
	}
	if len(prefix) == 0 {
		if len(sorted) > fallback {
			sorted = sorted[:fallback]
		}
		prefix = sorted
	}
	return prefix
}

// BuildTemplateLibrary derives a recommended task list per (department,
// product) segment from the catalog, with expected whole-job hours computed
// from the fact table over the same window.
func BuildTemplateLibrary(rows []model.FactRow, catalog []model.CatalogEntry, cfg config.SmartQuoteConfig, w Window) []model.JobTemplate {
	bySegment := make(map[segment][]model.CatalogEntry)
	var order []segment
	for _, e := range catalog {
		s := segment{e.Dept, e.Product}
		if _, ok := bySegment[s]; !ok {
			order = append(order, s)
		}
		bySegment[s] = append(bySegment[s], e)
	}

	jobHours := make(map[segment]map[string]float64)
	for _, r := range rows {
		if r.UnallocatedRow || !w.contains(r.MonthKey) {
			continue
		}
		s := segment{r.DeptReporting, r.Product}
		if _, ok := jobHours[s]; !ok {
			jobHours[s] = make(map[string]float64)
		}
		jobHours[s][r.JobNo] += r.ActualHours
	}

	out := make([]model.JobTemplate, 0, len(order))
	for _, s := range order {
		prefix := coveragePrefix(bySegment[s], cfg.CoverageTarget, templateFallbackTasks)
		tasks := make([]string, 0, len(prefix))
		for _, e := range prefix {
			tasks = append(tasks, e.TaskName)
		}

		totals := make([]float64, 0, len(jobHours[s]))
		for _, h := range jobHours[s] {
			totals = append(totals, h)
		}

		out = append(out, model.JobTemplate{
			Dept:             s.dept,
			Product:          s.product,
			RecommendedTasks: tasks,

			ExpectedHoursMedian: normalize.Median(totals),
			ExpectedHoursP75:    normalize.Percentile(totals, 75),
			ExpectedHoursP90:    normalize.Percentile(totals, 90),

			PeriodLabel: w.Label(),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Dept != out[j].Dept {
			return out[i].Dept < out[j].Dept
		}
		return out[i].Product < out[j].Product
	})
	return out
}
