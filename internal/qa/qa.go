// Package qa validates fact-table invariants and reports a structured result.
// Checks are independent: a failing check never stops the remaining ones.
package qa

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/jobcost-cli/internal/model"
)

const conservationTolerance = 1e-6

// Run executes every check against the fact table. droppedQuoteOnly is the
// number of quote-only tasks the fact builder could not place on the month
// axis; it is surfaced here as a warning counter instead of vanishing.
func Run(fact []model.FactRow, droppedQuoteOnly int) model.QAReport {
	report := model.QAReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    make(map[string]int),
		Warnings:  []string{},
	}

	duplicates := checkUniqueKeys(fact)
	report.Checks[model.CheckFactDuplicateCount] = duplicates
	report.Checks[model.CheckFactUniqueKeys] = boolCheck(duplicates == 0)
	if duplicates > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d duplicate (job, task, month) keys in fact table", duplicates))
	}

	fails := checkConservation(fact)
	report.Checks[model.CheckRevenueAllocationFails] = fails
	report.Checks[model.CheckRevenueAllocationPass] = boolCheck(fails == 0)
	if fails > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d job-months where allocated revenue does not reconcile", fails))
	}

	var negativeHours, missingDept int
	for _, r := range fact {
		if r.ActualHours < 0 {
			negativeHours++
		}
		if r.ActualHours > 0 && r.DeptActual == "" {
			missingDept++
		}
	}
	report.Checks[model.CheckNegativeHoursCount] = negativeHours
	report.Checks[model.CheckMissingDeptActualCount] = missingDept

	report.Checks[model.CheckUnplacedQuoteOnlyCount] = droppedQuoteOnly
	if droppedQuoteOnly > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d quote-only tasks dropped: no resolvable month", droppedQuoteOnly))
	}

	zap.L().Info("qa: checks complete",
		zap.Bool("passed", report.Passed()),
		zap.Int("warnings", len(report.Warnings)),
	)
	return report
}

func boolCheck(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

func checkUniqueKeys(fact []model.FactRow) int {
	seen := make(map[string]struct{}, len(fact))
	var duplicates int
	for _, r := range fact {
		k := r.Key()
		if _, ok := seen[k]; ok {
			duplicates++
			continue
		}
		seen[k] = struct{}{}
	}
	return duplicates
}

// checkConservation verifies that allocated revenue sums back to the
// job-month revenue figure. The figure is replicated across the actual-side
// rows of a group, so it is read once per group, never summed.
func checkConservation(fact []model.FactRow) int {
	type key struct{ job, month string }
	revenue := make(map[key]float64)
	allocated := make(map[key]float64)
	for _, r := range fact {
		k := key{r.JobNo, r.MonthKey}
		if r.Provenance != model.ProvenanceQuoteOnly {
			revenue[k] = r.RevenueMonthly
		}
		allocated[k] += r.RevAlloc
	}

	var fails int
	for k, rev := range revenue {
		delta := rev - allocated[k]
		if delta < 0 {
			delta = -delta
		}
		if delta >= conservationTolerance {
			fails++
		}
	}
	return fails
}
