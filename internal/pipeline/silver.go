package pipeline

// silver.go - conformance stage: dedup to the latest row per business key
// and normalize numeric types on parts sales.

import (
	"context"
	"fmt"

	"github.com/lakeline-labs/lakeline/internal/adapter"
)

// Silver table names.
const (
	SilverCustomers  = "silver_customers"
	SilverWorkOrders = "silver_work_orders"
	SilverPartsSales = "silver_parts_sales"
)

// Customers: one row per customer_id, latest created_at wins. Ties are
// broken arbitrarily by the engine.
const sqlSilverCustomers = `
CREATE OR REPLACE TABLE silver_customers AS
SELECT *
FROM bronze_customers
QUALIFY row_number() OVER (PARTITION BY customer_id ORDER BY created_at DESC) = 1
`

// Work orders: dedup by work_order_id on latest updated_at, then drop rows
// with a null order_date. The filter runs after dedup, so a null-dated row
// that wins its partition removes the key entirely.
const sqlSilverWorkOrders = `
CREATE OR REPLACE TABLE silver_work_orders AS
SELECT *
FROM (
    SELECT *
    FROM bronze_work_orders
    QUALIFY row_number() OVER (PARTITION BY work_order_id ORDER BY updated_at DESC) = 1
)
WHERE order_date IS NOT NULL
`

// Parts sales: dedup by sale_id on latest updated_at, then type the
// monetary columns. TRY_CAST yields NULL on unparseable values; a missing
// unit_price is treated as 0 before the cast, and a NULL quantity
// propagates into a NULL total_price.
const sqlSilverPartsSales = `
CREATE OR REPLACE TABLE silver_parts_sales AS
SELECT
    * REPLACE (
        TRY_CAST(quantity AS INTEGER) AS quantity,
        TRY_CAST(COALESCE(unit_price, '0') AS DECIMAL(10,2)) AS unit_price
    ),
    TRY_CAST(
        TRY_CAST(quantity AS INTEGER) * TRY_CAST(COALESCE(unit_price, '0') AS DECIMAL(10,2))
        AS DECIMAL(12,2)
    ) AS total_price
FROM (
    SELECT *
    FROM bronze_parts_sales
    QUALIFY row_number() OVER (PARTITION BY sale_id ORDER BY updated_at DESC) = 1
)
`

// BuildSilver materializes the three cleaned entities from bronze.
func BuildSilver(ctx context.Context, db adapter.Adapter) error {
	statements := []struct {
		table string
		sql   string
	}{
		{SilverCustomers, sqlSilverCustomers},
		{SilverWorkOrders, sqlSilverWorkOrders},
		{SilverPartsSales, sqlSilverPartsSales},
	}

	for _, stmt := range statements {
		if err := db.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("failed to build %s: %w", stmt.table, err)
		}
	}

	return nil
}
