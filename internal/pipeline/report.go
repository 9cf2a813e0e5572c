package pipeline

// report.go - the single-row run metrics record (audit trail of one run)

import (
	"context"
	"fmt"
	"time"

	"github.com/lakeline-labs/lakeline/internal/adapter"
	"github.com/lakeline-labs/lakeline/pkg/core"
)

// RunMetricsTable is the DuckDB table holding the run metrics record.
const RunMetricsTable = "dq.pipeline_runs"

// RunMetrics captures the identity, timing, and gold row counts of one
// pipeline execution.
type RunMetrics struct {
	RunID     string
	StartedAt time.Time
	EndedAt   time.Time
	Counts    core.RowCounts
}

// DurationSeconds is the elapsed wall-clock time of the run.
func (m RunMetrics) DurationSeconds() float64 {
	return m.EndedAt.Sub(m.StartedAt).Seconds()
}

// WriteRunMetrics materializes the run metrics as the single-row
// dq.pipeline_runs table.
func WriteRunMetrics(ctx context.Context, db adapter.Adapter, metrics RunMetrics) error {
	if err := db.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS dq"); err != nil {
		return fmt.Errorf("failed to create dq schema: %w", err)
	}

	createSQL := `
CREATE OR REPLACE TABLE dq.pipeline_runs (
    run_id                VARCHAR,
    started_at            VARCHAR,
    ended_at              VARCHAR,
    duration_seconds      DOUBLE,
    rows_dim_customer     BIGINT,
    rows_fact_work_order  BIGINT,
    rows_fact_parts_sales BIGINT
)`
	if err := db.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create pipeline_runs: %w", err)
	}

	insertSQL := fmt.Sprintf(
		"INSERT INTO dq.pipeline_runs VALUES (%s, %s, %s, %s, %d, %d, %d)",
		sqlString(metrics.RunID),
		sqlString(metrics.StartedAt.UTC().Format(time.RFC3339)),
		sqlString(metrics.EndedAt.UTC().Format(time.RFC3339)),
		sqlFloat(metrics.DurationSeconds()),
		metrics.Counts.DimCustomer,
		metrics.Counts.FactWorkOrder,
		metrics.Counts.FactPartsSales,
	)
	if err := db.Exec(ctx, insertSQL); err != nil {
		return fmt.Errorf("failed to insert run metrics: %w", err)
	}

	return nil
}
