package pipeline

import "github.com/sells-group/jobcost-cli/internal/model"

// ApplyFilters restricts a dataset with the given fact-row predicates. The
// fact table is filtered directly; summary and driver tables are restricted
// to the jobs that survive; catalog and templates narrow to the selected
// segment. Stored tables are never mutated.
func ApplyFilters(ds model.Dataset, f model.FactFilter) model.Dataset {
	filtered := f.Apply(ds.Fact)

	jobs := make(map[string]struct{})
	for _, r := range filtered {
		jobs[r.JobNo] = struct{}{}
	}
	keepJob := func(job string) bool {
		_, ok := jobs[job]
		return ok
	}

	out := model.Dataset{Fact: filtered, QA: ds.QA, Comps: ds.Comps}

	for _, s := range ds.JobMonth {
		if !keepJob(s.JobNo) {
			continue
		}
		if f.StartMonth != "" && s.MonthKey < f.StartMonth {
			continue
		}
		if f.EndMonth != "" && s.MonthKey > f.EndMonth {
			continue
		}
		out.JobMonth = append(out.JobMonth, s)
	}
	for _, s := range ds.JobTotal {
		if keepJob(s.JobNo) {
			out.JobTotal = append(out.JobTotal, s)
		}
	}
	for _, s := range ds.JobTask {
		if keepJob(s.JobNo) {
			out.JobTask = append(out.JobTask, s)
		}
	}
	for _, s := range ds.Drivers {
		if keepJob(s.JobNo) {
			out.Drivers = append(out.Drivers, s)
		}
	}

	for _, e := range ds.TaskCatalog {
		if f.Dept != "" && e.Dept != f.Dept {
			continue
		}
		if f.Product != "" && e.Product != f.Product {
			continue
		}
		out.TaskCatalog = append(out.TaskCatalog, e)
	}
	for _, t := range ds.Templates {
		if f.Dept != "" && t.Dept != f.Dept {
			continue
		}
		if f.Product != "" && t.Product != f.Product {
			continue
		}
		out.Templates = append(out.Templates, t)
	}

	return out
}
