package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lakeline-labs/lakeline/internal/adapter"
	"github.com/lakeline-labs/lakeline/internal/state"
	"github.com/lakeline-labs/lakeline/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB returns a connected in-memory DuckDB adapter.
func newTestDB(t *testing.T) adapter.Adapter {
	t.Helper()

	db := adapter.NewDuckDBAdapter()
	require.NoError(t, db.Connect(context.Background(), adapter.Config{Path: ":memory:"}))
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// fixtureSources points at the canned extracts under testdata. The
// fixtures carry one duplicate per entity, a null order_date, an
// unparseable quantity, a missing unit_price, a dangling customer
// reference, and an orphaned sale.
func fixtureSources() Sources {
	return Sources{
		Customers:  filepath.Join("testdata", "customers.csv"),
		WorkOrders: filepath.Join("testdata", "work_orders.csv"),
		PartsSales: filepath.Join("testdata", "parts_sales.csv"),
	}
}

// setupSilver loads the fixtures through bronze and silver.
func setupSilver(t *testing.T) adapter.Adapter {
	t.Helper()

	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, LoadBronze(ctx, db, fixtureSources()))
	require.NoError(t, BuildSilver(ctx, db))

	return db
}

// setupGold loads the fixtures all the way through the gold layer.
func setupGold(t *testing.T) adapter.Adapter {
	t.Helper()

	ctx := context.Background()
	db := setupSilver(t)
	require.NoError(t, BuildGold(ctx, db))
	require.NoError(t, BuildDimDate(ctx, db))

	return db
}

// newTestStore returns an open, migrated run-history store in a temp dir.
func newTestStore(t *testing.T) *state.SQLiteStore {
	t.Helper()

	store := state.NewSQLiteStore(nil)
	require.NoError(t, store.Open(filepath.Join(t.TempDir(), "state.db")))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestLoadBronze(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, LoadBronze(ctx, db, fixtureSources()))

	for table, want := range map[string]int64{
		BronzeCustomers:  4,
		BronzeWorkOrders: 5,
		BronzePartsSales: 5,
	} {
		n, err := tableCount(ctx, db, table)
		require.NoError(t, err)
		assert.Equal(t, want, n, "row count of %s", table)
	}
}

func TestLoadBronze_MissingSource(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	sources := fixtureSources()
	sources.WorkOrders = filepath.Join("testdata", "does_not_exist.csv")

	err := LoadBronze(ctx, db, sources)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source unavailable")
}

func TestPipeline_Run(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := newTestStore(t)
	outputDir := t.TempDir()

	p := New(db, store, Config{
		Sources:     fixtureSources(),
		OutputDir:   outputDir,
		Environment: "test",
	})

	run, err := p.Run(ctx)
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.Equal(t, core.RunStatusCompleted, run.Status)
	assert.Equal(t, "test", run.Environment)
	assert.Empty(t, run.Error)
	assert.NotNil(t, run.CompletedAt)

	assert.Equal(t, int64(4), run.Counts.DimCustomer)
	assert.Equal(t, int64(3), run.Counts.FactWorkOrder)
	assert.Equal(t, int64(3), run.Counts.FactPartsSales)

	// every output is exactly one CSV file with a header row
	goldFiles, err := os.ReadDir(filepath.Join(outputDir, "gold"))
	require.NoError(t, err)
	assert.Len(t, goldFiles, 4)

	for _, name := range []string{
		filepath.Join("gold", "dim_customer.csv"),
		filepath.Join("gold", "fact_work_order.csv"),
		filepath.Join("gold", "fact_parts_sales.csv"),
		filepath.Join("gold", "dim_date.csv"),
		filepath.Join("dq", "dq_results.csv"),
		filepath.Join("dq", "pipeline_runs.csv"),
	} {
		info, err := os.Stat(filepath.Join(outputDir, name))
		require.NoError(t, err, "missing output %s", name)
		assert.False(t, info.IsDir())
		assert.Greater(t, info.Size(), int64(0))
	}

	// DQ verdicts were persisted against the run
	results, err := store.GetDQResultsForRun(run.ID)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.Passed(), "rule %s should pass on the fixtures", r.CheckName)
	}
}

func TestPipeline_RunMissingSourceFails(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := newTestStore(t)
	outputDir := t.TempDir()

	sources := fixtureSources()
	sources.Customers = filepath.Join("testdata", "nope.csv")

	p := New(db, store, Config{
		Sources:     sources,
		OutputDir:   outputDir,
		Environment: "test",
	})

	run, err := p.Run(ctx)
	require.Error(t, err)
	require.NotNil(t, run)

	assert.Equal(t, core.RunStatusFailed, run.Status)
	assert.NotEmpty(t, run.Error)

	// nothing was exported
	_, statErr := os.Stat(filepath.Join(outputDir, "gold"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPipeline_RunRecordsHistory(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := newTestStore(t)

	p := New(db, store, Config{
		Sources:     fixtureSources(),
		OutputDir:   t.TempDir(),
		Environment: "test",
	})

	_, err := p.Run(ctx)
	require.NoError(t, err)
	_, err = p.Run(ctx)
	require.NoError(t, err)

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	latest, err := store.GetLatestRun("test")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, core.RunStatusCompleted, latest.Status)
	assert.GreaterOrEqual(t, latest.DurationSeconds, 0.0)
}
