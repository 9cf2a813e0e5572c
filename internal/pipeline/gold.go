package pipeline

// gold.go - dimensional modeling: the conformed star schema plus the
// derived date dimension and analytics views.

import (
	"context"
	"fmt"

	"github.com/lakeline-labs/lakeline/internal/adapter"
)

// Gold table names.
const (
	GoldDimCustomer    = "gold.dim_customer"
	GoldFactWorkOrder  = "gold.fact_work_order"
	GoldFactPartsSales = "gold.fact_parts_sales"
	GoldDimDate        = "gold.dim_date"
)

// Customer dimension with the reserved unknown member. The union is
// unconditional; source data is assumed not to carry a -1 customer_id.
const sqlDimCustomer = `
CREATE OR REPLACE TABLE gold.dim_customer AS
SELECT
    TRY_CAST(customer_id AS INTEGER) AS customer_id,
    customer_name,
    segment,
    state
FROM silver_customers
UNION ALL
SELECT -1, 'UNKNOWN', 'UNKNOWN', 'UNKNOWN'
`

// Work-order fact. The left join to the dimension key set plus COALESCE
// redirects dangling customer references to the -1 sentinel, so referential
// integrity holds by construction.
const sqlFactWorkOrder = `
CREATE OR REPLACE TABLE gold.fact_work_order AS
SELECT
    TRY_CAST(w.work_order_id AS INTEGER) AS work_order_id,
    COALESCE(d.customer_id, -1) AS customer_id,
    TRY_CAST(w.order_date AS DATE) AS order_date,
    w.status,
    w.labor_hours,
    w.labor_cost
FROM silver_work_orders w
LEFT JOIN gold.dim_customer d
    ON TRY_CAST(w.customer_id AS INTEGER) = d.customer_id
`

// Parts-sales fact. Sales without a matching work order are dropped, not
// repaired: there is no unknown-work-order sentinel.
const sqlFactPartsSales = `
CREATE OR REPLACE TABLE gold.fact_parts_sales AS
SELECT
    TRY_CAST(s.sale_id AS INTEGER) AS sale_id,
    f.work_order_id,
    s.sku,
    s.quantity,
    s.unit_price,
    s.total_price,
    TRY_CAST(s.sale_date AS DATE) AS sale_date
FROM silver_parts_sales s
JOIN gold.fact_work_order f
    ON TRY_CAST(s.work_order_id AS INTEGER) = f.work_order_id
`

// Date dimension synthesized from the distinct non-null dates observed in
// both facts. is_weekend is derived from the day name, not from any
// engine-specific weekday numbering.
const sqlDimDate = `
CREATE OR REPLACE TABLE gold.dim_date AS
WITH dates AS (
    SELECT DISTINCT d
    FROM (
        SELECT order_date AS d FROM gold.fact_work_order
        UNION ALL
        SELECT sale_date FROM gold.fact_parts_sales
    )
    WHERE d IS NOT NULL
)
SELECT
    CAST(strftime(d, '%Y%m%d') AS INTEGER) AS date_id,
    d AS "date",
    year(d) AS year,
    month(d) AS month,
    monthname(d) AS month_name,
    day(d) AS day,
    strftime(d, '%a') AS day_of_week,
    dayname(d) IN ('Saturday', 'Sunday') AS is_weekend
FROM dates
ORDER BY d
`

// Analytics views over the star schema. These are part of the modeled
// output but are not exported as CSV. The revenue window is anchored on
// the latest observed sale date rather than the wall clock.
const sqlViewCustomerRevenue90d = `
CREATE OR REPLACE VIEW gold.vw_customer_revenue_90d AS
SELECT
    c.customer_id,
    c.customer_name,
    sum(ps.total_price) AS total_revenue
FROM gold.fact_parts_sales ps
JOIN gold.fact_work_order wo ON ps.work_order_id = wo.work_order_id
JOIN gold.dim_customer c ON wo.customer_id = c.customer_id
WHERE ps.sale_date >= (SELECT max(sale_date) FROM gold.fact_parts_sales) - INTERVAL 90 DAY
GROUP BY c.customer_id, c.customer_name
`

const sqlViewOrdersByStatusMonth = `
CREATE OR REPLACE VIEW gold.vw_orders_by_status_month AS
SELECT
    date_trunc('month', order_date) AS month,
    status,
    count(*) AS total_orders
FROM gold.fact_work_order
GROUP BY date_trunc('month', order_date), status
`

const sqlViewAvgPartsTicket = `
CREATE OR REPLACE VIEW gold.vw_avg_parts_ticket AS
SELECT
    work_order_id,
    avg(total_price) AS avg_ticket
FROM gold.fact_parts_sales
GROUP BY work_order_id
`

// BuildGold materializes the customer dimension and the two facts from the
// cleaned entities. Order matters: each table joins against its
// predecessor's key set.
func BuildGold(ctx context.Context, db adapter.Adapter) error {
	if err := db.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS gold"); err != nil {
		return fmt.Errorf("failed to create gold schema: %w", err)
	}

	statements := []struct {
		table string
		sql   string
	}{
		{GoldDimCustomer, sqlDimCustomer},
		{GoldFactWorkOrder, sqlFactWorkOrder},
		{GoldFactPartsSales, sqlFactPartsSales},
	}

	for _, stmt := range statements {
		if err := db.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("failed to build %s: %w", stmt.table, err)
		}
	}

	return nil
}

// BuildDimDate synthesizes the date dimension from the fact date columns.
func BuildDimDate(ctx context.Context, db adapter.Adapter) error {
	if err := db.Exec(ctx, sqlDimDate); err != nil {
		return fmt.Errorf("failed to build %s: %w", GoldDimDate, err)
	}
	return nil
}

// BuildAnalyticsViews creates the reporting views over the star schema.
func BuildAnalyticsViews(ctx context.Context, db adapter.Adapter) error {
	views := []struct {
		name string
		sql  string
	}{
		{"gold.vw_customer_revenue_90d", sqlViewCustomerRevenue90d},
		{"gold.vw_orders_by_status_month", sqlViewOrdersByStatusMonth},
		{"gold.vw_avg_parts_ticket", sqlViewAvgPartsTicket},
	}

	for _, v := range views {
		if err := db.Exec(ctx, v.sql); err != nil {
			return fmt.Errorf("failed to build %s: %w", v.name, err)
		}
	}

	return nil
}
