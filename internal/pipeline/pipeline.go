// Package pipeline orchestrates a full dataset build: read the workbook,
// aggregate the three sheets, allocate revenue, reconcile the fact table,
// derive every downstream table and run QA. Each run produces a complete,
// fresh output set.
package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/jobcost-cli/internal/allocate"
	"github.com/sells-group/jobcost-cli/internal/config"
	"github.com/sells-group/jobcost-cli/internal/drivers"
	"github.com/sells-group/jobcost-cli/internal/fact"
	"github.com/sells-group/jobcost-cli/internal/fetcher"
	"github.com/sells-group/jobcost-cli/internal/ingest"
	"github.com/sells-group/jobcost-cli/internal/intel"
	"github.com/sells-group/jobcost-cli/internal/model"
	"github.com/sells-group/jobcost-cli/internal/normalize"
	"github.com/sells-group/jobcost-cli/internal/qa"
)

// Input workbook sheet names.
const (
	SheetRevenue   = "Monthly Revenue"
	SheetTimesheet = "Timesheet Data"
	SheetQuotes    = "Quotation Data"
)

// BuildOptions parameterizes one pipeline run.
type BuildOptions struct {
	InputPath string
	FY        string // optional fiscal-year restriction, e.g. "FY26"

	SmartQuote config.SmartQuoteConfig
	Mappings   config.MappingsConfig
}

// BuildResult is the dataset plus the run's provenance record.
type BuildResult struct {
	Dataset model.Dataset
	Info    model.BuildInfo
}

// Build runs the whole pipeline over one workbook.
func Build(opts BuildOptions) (*BuildResult, error) {
	taskNames, err := fetcher.LoadMapping(opts.Mappings.TaskNamePath)
	if err != nil {
		return nil, err
	}
	departments, err := fetcher.LoadMapping(opts.Mappings.DepartmentPath)
	if err != nil {
		return nil, err
	}
	ingestOpts := ingest.Options{TaskNames: taskNames, Departments: departments}

	zap.L().Info("pipeline: reading workbook", zap.String("path", opts.InputPath))
	sheets, err := fetcher.ReadWorkbook(opts.InputPath, SheetRevenue, SheetTimesheet, SheetQuotes)
	if err != nil {
		return nil, err
	}

	// The three aggregations are independent of each other.
	var (
		revenue   []model.RevenueMonth
		timesheet []model.TaskMonth
		quotes    []model.QuoteTask
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		revenue, err = ingest.BuildRevenueMonthly(sheets[SheetRevenue])
		return err
	})
	g.Go(func() error {
		var err error
		timesheet, err = ingest.BuildTimesheetTaskMonth(sheets[SheetTimesheet], ingestOpts)
		return err
	})
	g.Go(func() error {
		var err error
		quotes, err = ingest.BuildQuoteTask(sheets[SheetQuotes], ingestOpts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: aggregate sheets")
	}

	if opts.FY != "" {
		revenue, timesheet, quotes = filterFY(revenue, timesheet, quotes, opts.FY)
		zap.L().Info("pipeline: fiscal year filter applied",
			zap.String("fy", opts.FY),
			zap.Int("revenue_rows", len(revenue)),
			zap.Int("timesheet_rows", len(timesheet)),
			zap.Int("quote_rows", len(quotes)),
		)
	}

	allocated := allocate.Allocate(timesheet, revenue)
	reconciled := fact.Build(allocated, quotes)

	window := intel.Window{}
	catalog := intel.BuildTaskCatalog(reconciled.Rows, opts.SmartQuote, window)

	ds := model.Dataset{
		Fact:        reconciled.Rows,
		JobMonth:    fact.BuildJobMonthSummary(reconciled.Rows),
		JobTotal:    fact.BuildJobTotalSummary(reconciled.Rows, quotes),
		JobTask:     fact.BuildJobTaskSummary(reconciled.Rows),
		Drivers:     drivers.BuildDriverSummary(reconciled.Rows),
		TaskCatalog: catalog,
		Templates:   intel.BuildTemplateLibrary(reconciled.Rows, catalog, opts.SmartQuote, window),
		Comps:       intel.BuildJobComps(reconciled.Rows, intel.DefaultCompsTopN),
		QA:          qa.Run(reconciled.Rows, len(reconciled.DroppedQuoteOnly)),
	}

	info := model.BuildInfo{
		ID:        uuid.NewString(),
		InputPath: opts.InputPath,
		FY:        opts.FY,
		FactRows:  len(ds.Fact),
		CreatedAt: time.Now().UTC(),
	}
	zap.L().Info("pipeline: build complete",
		zap.String("build_id", info.ID),
		zap.Int("fact_rows", info.FactRows),
		zap.Bool("qa_passed", ds.QA.Passed()),
	)
	return &BuildResult{Dataset: ds, Info: info}, nil
}

// filterFY restricts the three aggregates to one fiscal year. Revenue rows
// carrying an FY label from the source sheet are matched on it; everything
// else falls back to the month-key-derived label. Quotes without a resolvable
// month never match.
func filterFY(revenue []model.RevenueMonth, timesheet []model.TaskMonth, quotes []model.QuoteTask, fy string) ([]model.RevenueMonth, []model.TaskMonth, []model.QuoteTask) {
	var hasFYColumn bool
	for _, rm := range revenue {
		if rm.FY != "" {
			hasFYColumn = true
			break
		}
	}

	revOut := revenue[:0:0]
	for _, rm := range revenue {
		if hasFYColumn {
			if rm.FY == fy {
				revOut = append(revOut, rm)
			}
			continue
		}
		if normalize.FYLabel(rm.MonthKey) == fy {
			revOut = append(revOut, rm)
		}
	}

	tsOut := timesheet[:0:0]
	for _, tm := range timesheet {
		if normalize.FYLabel(tm.MonthKey) == fy {
			tsOut = append(tsOut, tm)
		}
	}

	qtOut := quotes[:0:0]
	for _, qt := range quotes {
		if normalize.FYLabel(qt.QuoteMonthKey) == fy {
			qtOut = append(qtOut, qt)
		}
	}
	return revOut, tsOut, qtOut
}
