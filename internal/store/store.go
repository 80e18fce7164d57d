// Package store persists the derived tables produced by a pipeline build.
// Each build fully overwrites the previous output set; there is no
// incremental merge.
package store

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/jobcost-cli/internal/model"
)

// Persisted table names.
const (
	TableFact        = "fact_job_task_month"
	TableJobMonth    = "job_month_summary"
	TableJobTotal    = "job_total_summary"
	TableJobTask     = "job_task_summary"
	TableDrivers     = "job_driver_summary"
	TableTaskCatalog = "task_catalog"
	TableTemplates   = "job_template_library"
	TableComps       = "job_comps_index"
	TableQA          = "qa_report"
)

// Store is the persistence interface for pipeline output.
type Store interface {
	SaveDataset(ctx context.Context, info model.BuildInfo, ds model.Dataset) error
	LoadDataset(ctx context.Context) (*model.Dataset, error)
	LatestBuild(ctx context.Context) (*model.BuildInfo, error)
	ListBuilds(ctx context.Context, limit int) ([]model.BuildInfo, error)

	Migrate(ctx context.Context) error
	Close() error
}

// datasetTables maps table names to the dataset fields they serialize.
func datasetTables(ds *model.Dataset) map[string]any {
	return map[string]any{
		TableFact:        &ds.Fact,
		TableJobMonth:    &ds.JobMonth,
		TableJobTotal:    &ds.JobTotal,
		TableJobTask:     &ds.JobTask,
		TableDrivers:     &ds.Drivers,
		TableTaskCatalog: &ds.TaskCatalog,
		TableTemplates:   &ds.Templates,
		TableComps:       &ds.Comps,
		TableQA:          &ds.QA,
	}
}

// encodeTables renders every dataset table as JSON in stable name order.
func encodeTables(ds model.Dataset) ([]string, map[string][]byte, error) {
	tables := datasetTables(&ds)
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	payloads := make(map[string][]byte, len(tables))
	for _, name := range names {
		b, err := json.Marshal(tables[name])
		if err != nil {
			return nil, nil, eris.Wrapf(err, "store: marshal %s", name)
		}
		payloads[name] = b
	}
	return names, payloads, nil
}

// decodeTable unmarshals one table payload into the dataset.
func decodeTable(ds *model.Dataset, name string, payload []byte) error {
	dest, ok := datasetTables(ds)[name]
	if !ok {
		// Unknown tables are skipped so newer writers stay readable.
		return nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return eris.Wrapf(err, "store: unmarshal %s", name)
	}
	return nil
}
