package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/lakeline-labs/lakeline/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMetrics_DurationSeconds(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := RunMetrics{
		StartedAt: start,
		EndedAt:   start.Add(90 * time.Second),
	}

	assert.Equal(t, 90.0, m.DurationSeconds())
}

func TestWriteRunMetrics(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	metrics := RunMetrics{
		RunID:     "run-abc",
		StartedAt: start,
		EndedAt:   start.Add(5 * time.Second),
		Counts: core.RowCounts{
			DimCustomer:    4,
			FactWorkOrder:  3,
			FactPartsSales: 3,
		},
	}

	require.NoError(t, WriteRunMetrics(ctx, db, metrics))

	n, err := tableCount(ctx, db, RunMetricsTable)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var runID, startedAt string
	var duration float64
	var dimCustomer, factWorkOrder, factPartsSales int64
	err = queryRow(ctx, db, `
SELECT run_id, started_at, duration_seconds,
       rows_dim_customer, rows_fact_work_order, rows_fact_parts_sales
FROM dq.pipeline_runs`,
		&runID, &startedAt, &duration, &dimCustomer, &factWorkOrder, &factPartsSales)
	require.NoError(t, err)

	assert.Equal(t, "run-abc", runID)
	assert.Equal(t, "2024-03-01T12:00:00Z", startedAt)
	assert.Equal(t, 5.0, duration)
	assert.Equal(t, int64(4), dimCustomer)
	assert.Equal(t, int64(3), factWorkOrder)
	assert.Equal(t, int64(3), factPartsSales)
}

func TestWriteRunMetrics_Replaces(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	first := RunMetrics{RunID: "run-1", StartedAt: time.Now(), EndedAt: time.Now()}
	second := RunMetrics{RunID: "run-2", StartedAt: time.Now(), EndedAt: time.Now()}

	require.NoError(t, WriteRunMetrics(ctx, db, first))
	require.NoError(t, WriteRunMetrics(ctx, db, second))

	var runID string
	err := queryRow(ctx, db, "SELECT run_id FROM dq.pipeline_runs", &runID)
	require.NoError(t, err)
	assert.Equal(t, "run-2", runID)
}
