package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/jobcost-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testDataset() model.Dataset {
	return model.Dataset{
		Fact: []model.FactRow{
			{
				JobNo: "J1", TaskName: "design", MonthKey: "2025-01",
				Provenance: model.ProvenanceBoth, ActualHours: 10,
				RevenueMonthly: 2000, RevAlloc: 500, DeptActual: "TECH",
			},
		},
		JobMonth: []model.JobMonthSummary{{JobNo: "J1", MonthKey: "2025-01", RevenueMonthly: 2000}},
		JobTotal: []model.JobTotalSummary{{JobNo: "J1", RevAlloc: 500}},
		JobTask:  []model.JobTaskSummary{{JobNo: "J1", TaskName: "design", ActualHours: 10}},
		Drivers:  []model.DriverSummary{{JobNo: "J1", RevAlloc: 500}},
		TaskCatalog: []model.CatalogEntry{
			{Dept: "TECH", Product: "Web", TaskName: "design", TaskFreqShare: 1, PeriodLabel: "ALL"},
		},
		Templates: []model.JobTemplate{{Dept: "TECH", Product: "Web", RecommendedTasks: []string{"design"}}},
		Comps:     []model.JobComps{{JobNo: "J1", Dept: "TECH", Product: "Web", Comps: []model.CompScore{}}},
		QA: model.QAReport{
			Timestamp: "2025-01-31T00:00:00Z",
			Checks:    map[string]int{model.CheckFactUniqueKeys: 1},
			Warnings:  []string{},
		},
	}
}

func testBuildInfo() model.BuildInfo {
	return model.BuildInfo{
		ID:        uuid.NewString(),
		InputPath: "data/raw/input.xlsx",
		FY:        "FY25",
		FactRows:  1,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLiteStore_SaveLoadRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	ds := testDataset()

	require.NoError(t, s.SaveDataset(ctx, testBuildInfo(), ds))

	loaded, err := s.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, ds.Fact, loaded.Fact)
	assert.Equal(t, ds.JobMonth, loaded.JobMonth)
	assert.Equal(t, ds.JobTotal, loaded.JobTotal)
	assert.Equal(t, ds.JobTask, loaded.JobTask)
	assert.Equal(t, ds.Drivers, loaded.Drivers)
	assert.Equal(t, ds.TaskCatalog, loaded.TaskCatalog)
	assert.Equal(t, ds.Templates, loaded.Templates)
	assert.Equal(t, ds.Comps, loaded.Comps)
	assert.Equal(t, ds.QA, loaded.QA)
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDataset(ctx, testBuildInfo(), testDataset()))

	second := testDataset()
	second.Fact = append(second.Fact, model.FactRow{
		JobNo: "J2", TaskName: "build", MonthKey: "2025-02", Provenance: model.ProvenanceActualOnly,
	})
	require.NoError(t, s.SaveDataset(ctx, testBuildInfo(), second))

	loaded, err := s.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Fact, 2)
}

func TestSQLiteStore_LoadEmpty(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.LoadDataset(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dataset")
}

func TestSQLiteStore_LatestBuild(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.LatestBuild(ctx)
	require.Error(t, err)

	older := testBuildInfo()
	older.CreatedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, s.SaveDataset(ctx, older, testDataset()))

	newer := testBuildInfo()
	require.NoError(t, s.SaveDataset(ctx, newer, testDataset()))

	latest, err := s.LatestBuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
	assert.Equal(t, "FY25", latest.FY)

	builds, err := s.ListBuilds(ctx, 10)
	require.NoError(t, err)
	require.Len(t, builds, 2)
	assert.Equal(t, newer.ID, builds[0].ID)
	assert.Equal(t, older.ID, builds[1].ID)
}
