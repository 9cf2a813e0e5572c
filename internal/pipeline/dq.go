package pipeline

// dq.go - the data-quality rule battery evaluated against the star schema

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lakeline-labs/lakeline/internal/adapter"
	"github.com/lakeline-labs/lakeline/pkg/core"
)

// DQResultsTable is the DuckDB table holding the evaluated rule results.
const DQResultsTable = "dq.dq_results"

// Rule is one independent data-quality check. Metric computes a ratio in
// [0,1] over the modeled output; the rule passes when the metric does not
// exceed Threshold.
type Rule struct {
	Name        string
	Table       string
	Description string
	Threshold   float64
	Metric      func(ctx context.Context, db adapter.Adapter) (float64, error)
}

// Rules returns the fixed rule battery. Extend by appending entries; rules
// are independent and evaluated in order.
func Rules() []Rule {
	return []Rule{
		{
			Name:        "null_rate_customer_id",
			Table:       "dim_customer",
			Description: "customer_id should not be null",
			Threshold:   0.01,
			Metric:      nullRateCustomerID,
		},
		{
			Name:        "duplicate_rate_work_order",
			Table:       "fact_work_order",
			Description: "work_order_id must be unique",
			Threshold:   0.0,
			Metric:      duplicateRateWorkOrder,
		},
		{
			Name:        "orphan_rate_parts_sales",
			Table:       "fact_parts_sales",
			Description: "sales must reference valid work_order",
			Threshold:   0.0,
			Metric:      orphanRatePartsSales,
		},
	}
}

// EvaluateRules runs the full battery and returns one result per rule.
// FAIL verdicts are recorded, never raised.
func EvaluateRules(ctx context.Context, db adapter.Adapter) ([]core.DQResult, error) {
	rules := Rules()
	results := make([]core.DQResult, 0, len(rules))

	for _, rule := range rules {
		metric, err := rule.Metric(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Name, err)
		}

		status := core.DQStatusFail
		if metric <= rule.Threshold {
			status = core.DQStatusPass
		}

		results = append(results, core.DQResult{
			CheckName:   rule.Name,
			TableName:   rule.Table,
			MetricValue: metric,
			Threshold:   rule.Threshold,
			Status:      status,
			Details:     rule.Description,
		})
	}

	return results, nil
}

// nullRateCustomerID is the share of dim_customer rows with a null key.
func nullRateCustomerID(ctx context.Context, db adapter.Adapter) (float64, error) {
	var nulls, total int64
	err := queryRow(ctx, db,
		"SELECT count(*) FILTER (WHERE customer_id IS NULL), count(*) FROM gold.dim_customer",
		&nulls, &total)
	if err != nil {
		return 0, err
	}
	return ratio(nulls, total), nil
}

// duplicateRateWorkOrder is the share of fact_work_order rows carrying a
// duplicate work_order_id.
func duplicateRateWorkOrder(ctx context.Context, db adapter.Adapter) (float64, error) {
	var total, distinct int64
	err := queryRow(ctx, db,
		"SELECT count(*), count(DISTINCT work_order_id) FROM gold.fact_work_order",
		&total, &distinct)
	if err != nil {
		return 0, err
	}
	return ratio(total-distinct, total), nil
}

// orphanRatePartsSales is the share of fact_parts_sales rows whose
// work_order_id has no match in fact_work_order.
func orphanRatePartsSales(ctx context.Context, db adapter.Adapter) (float64, error) {
	orphans, err := queryCount(ctx, db, `
SELECT count(*)
FROM gold.fact_parts_sales s
ANTI JOIN gold.fact_work_order w ON s.work_order_id = w.work_order_id`)
	if err != nil {
		return 0, err
	}

	total, err := tableCount(ctx, db, GoldFactPartsSales)
	if err != nil {
		return 0, err
	}

	return ratio(orphans, total), nil
}

// ratio divides num by den, returning 0 on an empty denominator.
func ratio(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// WriteDQResults materializes the evaluated rules as the dq.dq_results
// table, one row per rule.
func WriteDQResults(ctx context.Context, db adapter.Adapter, results []core.DQResult) error {
	if err := db.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS dq"); err != nil {
		return fmt.Errorf("failed to create dq schema: %w", err)
	}

	createSQL := `
CREATE OR REPLACE TABLE dq.dq_results (
    check_name   VARCHAR,
    table_name   VARCHAR,
    metric_value DOUBLE,
    threshold    DOUBLE,
    status       VARCHAR,
    details      VARCHAR
)`
	if err := db.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create dq_results: %w", err)
	}

	if len(results) == 0 {
		return nil
	}

	values := make([]string, len(results))
	for i, r := range results {
		values[i] = fmt.Sprintf("(%s, %s, %s, %s, %s, %s)",
			sqlString(r.CheckName),
			sqlString(r.TableName),
			sqlFloat(r.MetricValue),
			sqlFloat(r.Threshold),
			sqlString(string(r.Status)),
			sqlString(r.Details),
		)
	}

	insertSQL := "INSERT INTO dq.dq_results VALUES " + strings.Join(values, ", ")
	if err := db.Exec(ctx, insertSQL); err != nil {
		return fmt.Errorf("failed to insert dq results: %w", err)
	}

	return nil
}

// sqlString quotes a string as a SQL literal.
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// sqlFloat formats a float as a SQL literal without precision loss.
func sqlFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
