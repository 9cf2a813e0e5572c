package pipeline

// export.go - single-file CSV packaging of the gold and DQ outputs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lakeline-labs/lakeline/internal/adapter"
)

// ExportGold writes the four gold tables under <outputDir>/gold, one CSV
// file with a header row per table.
func ExportGold(ctx context.Context, db adapter.Adapter, outputDir string) error {
	targets := []struct {
		table string
		rel   string
	}{
		{GoldDimCustomer, filepath.Join("gold", "dim_customer.csv")},
		{GoldFactWorkOrder, filepath.Join("gold", "fact_work_order.csv")},
		{GoldFactPartsSales, filepath.Join("gold", "fact_parts_sales.csv")},
		{GoldDimDate, filepath.Join("gold", "dim_date.csv")},
	}

	for _, t := range targets {
		if err := exportTable(ctx, db, t.table, filepath.Join(outputDir, t.rel)); err != nil {
			return err
		}
	}

	return nil
}

// ExportDQResults writes the DQ report under <outputDir>/dq.
func ExportDQResults(ctx context.Context, db adapter.Adapter, outputDir string) error {
	return exportTable(ctx, db, DQResultsTable, filepath.Join(outputDir, "dq", "dq_results.csv"))
}

// ExportRunMetrics writes the run metrics record under <outputDir>/dq.
func ExportRunMetrics(ctx context.Context, db adapter.Adapter, outputDir string) error {
	return exportTable(ctx, db, RunMetricsTable, filepath.Join(outputDir, "dq", "pipeline_runs.csv"))
}

// exportTable coalesces a table to exactly one CSV file at path.
func exportTable(ctx context.Context, db adapter.Adapter, table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory for %s: %w", table, err)
	}

	if err := db.CopyCSV(ctx, table, path); err != nil {
		return fmt.Errorf("failed to export %s to %s: %w", table, path, err)
	}

	return nil
}
