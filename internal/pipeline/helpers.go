package pipeline

// helpers.go - small query utilities shared by the stages

import (
	"context"
	"fmt"

	"github.com/lakeline-labs/lakeline/internal/adapter"
	"github.com/lakeline-labs/lakeline/pkg/core"
)

// queryRow runs a query expected to return exactly one row and scans it
// into dest.
func queryRow(ctx context.Context, db adapter.Adapter, sqlStr string, dest ...any) error {
	rows, err := db.Query(ctx, sqlStr)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return fmt.Errorf("query returned no rows")
	}
	if err := rows.Scan(dest...); err != nil {
		return err
	}
	return rows.Err()
}

// queryCount returns the single count produced by a COUNT(*)-style query.
func queryCount(ctx context.Context, db adapter.Adapter, sqlStr string) (int64, error) {
	var count int64
	if err := queryRow(ctx, db, sqlStr, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// tableCount returns the row count of a table.
func tableCount(ctx context.Context, db adapter.Adapter, table string) (int64, error) {
	return queryCount(ctx, db, "SELECT count(*) FROM "+table)
}

// GoldRowCounts counts the three gold outputs for run metrics.
func GoldRowCounts(ctx context.Context, db adapter.Adapter) (core.RowCounts, error) {
	var counts core.RowCounts

	targets := []struct {
		table string
		dest  *int64
	}{
		{GoldDimCustomer, &counts.DimCustomer},
		{GoldFactWorkOrder, &counts.FactWorkOrder},
		{GoldFactPartsSales, &counts.FactPartsSales},
	}

	for _, t := range targets {
		n, err := tableCount(ctx, db, t.table)
		if err != nil {
			return counts, fmt.Errorf("failed to count %s: %w", t.table, err)
		}
		*t.dest = n
	}

	return counts, nil
}
