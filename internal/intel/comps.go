package intel

import (
	"sort"

	"github.com/sells-group/jobcost-cli/internal/model"
)

// DefaultCompsTopN bounds the ranked comparable list per job.
const DefaultCompsTopN = 10

// Jaccard computes |a∩b| / |a∪b| over task sets; two empty sets score 0.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	var intersection int
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// BuildJobComps ranks, for each job, the topN most similar jobs within its
// (department, product) segment by task-set Jaccard similarity. Only tasks
// with logged hours count toward a job's task set.
func BuildJobComps(rows []model.FactRow, topN int) []model.JobComps {
	if topN <= 0 {
		topN = DefaultCompsTopN
	}

	meta := make(map[string]segment)
	taskHours := make(map[string]map[string]float64)
	for _, r := range rows {
		if r.UnallocatedRow {
			continue
		}
		if _, ok := meta[r.JobNo]; !ok {
			meta[r.JobNo] = segment{r.DeptReporting, r.Product}
			taskHours[r.JobNo] = make(map[string]float64)
		}
		taskHours[r.JobNo][r.TaskName] += r.ActualHours
	}

	taskSets := make(map[string]map[string]struct{}, len(taskHours))
	for job, tasks := range taskHours {
		set := make(map[string]struct{})
		for task, hours := range tasks {
			if hours > 0 {
				set[task] = struct{}{}
			}
		}
		taskSets[job] = set
	}

	segJobs := make(map[segment][]string)
	for job, s := range meta {
		segJobs[s] = append(segJobs[s], job)
	}
	for _, jobs := range segJobs {
		sort.Strings(jobs)
	}

	out := make([]model.JobComps, 0, len(meta))
	for s, jobs := range segJobs {
		for _, job := range jobs {
			scores := make([]model.CompScore, 0, len(jobs)-1)
			for _, other := range jobs {
				if other == job {
					continue
				}
				scores = append(scores, model.CompScore{
					JobNo: other,
					Score: Jaccard(taskSets[job], taskSets[other]),
				})
			}
			// Ties keep ascending job order.
			sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
			if len(scores) > topN {
				scores = scores[:topN]
			}
			out = append(out, model.JobComps{
				JobNo:   job,
				Dept:    s.dept,
				Product: s.product,
				Comps:   scores,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].JobNo < out[j].JobNo })
	return out
}
