// Package intel derives quoting intelligence from the fact table: per-segment
// task benchmarks, recommended job templates, comparable-job rankings, and
// priced quote recommendations.
package intel

import (
	"sort"

	"github.com/sells-group/jobcost-cli/internal/config"
	"github.com/sells-group/jobcost-cli/internal/model"
	"github.com/sells-group/jobcost-cli/internal/normalize"
)

// Window scopes intelligence computations to an inclusive month-key range.
// Empty bounds leave that side open.
type Window struct {
	Start string
	End   string
}

func (w Window) contains(monthKey string) bool {
	if w.Start != "" && monthKey < w.Start {
		return false
	}
	if w.End != "" && monthKey > w.End {
		return false
	}
	return true
}

// Label renders the window as a period label for catalog and template rows.
func (w Window) Label() string {
	return normalize.PeriodLabel(w.Start, w.End)
}

type segment struct{ dept, product string }

// jobTaskInstance is one job's lifetime view of a task within a segment, the
// unit of observation for every catalog statistic.
type jobTaskInstance struct {
	job          string
	seg          segment
	task         string
	hours        float64
	cost         float64
	revAlloc     float64
	quotedTime   float64
	deptMismatch bool
}

func buildInstances(rows []model.FactRow, w Window) []jobTaskInstance {
	type key struct {
		job, dept, product, task string
	}
	groups := make(map[key]*jobTaskInstance)
	var order []key
	for _, r := range rows {
		if r.UnallocatedRow || !w.contains(r.MonthKey) {
			continue
		}
		k := key{r.JobNo, r.DeptReporting, r.Product, r.TaskName}
		inst, ok := groups[k]
		if !ok {
			inst = &jobTaskInstance{
				job:  r.JobNo,
				seg:  segment{r.DeptReporting, r.Product},
				task: r.TaskName,
			}
			groups[k] = inst
			order = append(order, k)
		}
		inst.hours += r.ActualHours
		inst.cost += r.ActualCost
		inst.revAlloc += r.RevAlloc
		if r.QuotedTime > inst.quotedTime {
			inst.quotedTime = r.QuotedTime
		}
		if r.DeptMismatched {
			inst.deptMismatch = true
		}
	}

	out := make([]jobTaskInstance, 0, len(order))
	for _, k := range order {
		out = append(out, *groups[k])
	}
	return out
}

// BuildTaskCatalog computes per (department, product, task) benchmarks over
// job-task instances inside the window. The risk score is the weighted sum of
// overrun rate, volatility and unquoted rate.
func BuildTaskCatalog(rows []model.FactRow, cfg config.SmartQuoteConfig, w Window) []model.CatalogEntry {
	instances := buildInstances(rows, w)

	segJobs := make(map[segment]map[string]struct{})
	type taskKey struct {
		seg  segment
		task string
	}
	byTask := make(map[taskKey][]jobTaskInstance)
	var order []taskKey
	for _, inst := range instances {
		jobs, ok := segJobs[inst.seg]
		if !ok {
			jobs = make(map[string]struct{})
			segJobs[inst.seg] = jobs
		}
		jobs[inst.job] = struct{}{}

		tk := taskKey{inst.seg, inst.task}
		if _, ok := byTask[tk]; !ok {
			order = append(order, tk)
		}
		byTask[tk] = append(byTask[tk], inst)
	}

	out := make([]model.CatalogEntry, 0, len(order))
	for _, tk := range order {
		insts := byTask[tk]

		jobs := make(map[string]struct{}, len(insts))
		var hours, costRates, revRates []float64
		var overruns, unquoted, mismatches int
		for _, inst := range insts {
			jobs[inst.job] = struct{}{}
			hours = append(hours, inst.hours)
			costRates = append(costRates, normalize.SafeDivide(inst.cost, inst.hours))
			revRates = append(revRates, normalize.SafeDivide(inst.revAlloc, inst.hours))
			if inst.hours > inst.quotedTime {
				overruns++
			}
			if inst.quotedTime == 0 && inst.hours > 0 {
				unquoted++
			}
			if inst.deptMismatch {
				mismatches++
			}
		}

		n := float64(len(insts))
		e := model.CatalogEntry{
			Dept:     tk.seg.dept,
			Product:  tk.seg.product,
			TaskName: tk.task,

			TaskFreqJobs: len(jobs),
			JobCount:     len(segJobs[tk.seg]),

			HoursPerJobMedian: normalize.Median(hours),
			HoursPerJobMean:   normalize.Mean(hours),
			HoursPerJobP75:    normalize.Percentile(hours, 75),
			HoursPerJobP90:    normalize.Percentile(hours, 90),

			CostPerHourMedian: normalize.Median(costRates),
			RevPerHourMedian:  normalize.Median(revRates),

			OverrunRate:      float64(overruns) / n,
			UnquotedRate:     float64(unquoted) / n,
			DeptMismatchRate: float64(mismatches) / n,
			Volatility:       normalize.SafeDivide(normalize.Std(hours), normalize.Mean(hours)),

			PeriodLabel: w.Label(),
		}
		e.TaskFreqShare = normalize.SafeDivide(float64(e.TaskFreqJobs), float64(e.JobCount))
		e.RiskScore = e.OverrunRate*cfg.RiskWeights.OverrunRate +
			e.Volatility*cfg.RiskWeights.Volatility +
			e.UnquotedRate*cfg.RiskWeights.UnquotedRate
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Dept != out[j].Dept {
			return out[i].Dept < out[j].Dept
		}
		if out[i].Product != out[j].Product {
			return out[i].Product < out[j].Product
		}
		return out[i].TaskName < out[j].TaskName
	})
	return out
}
