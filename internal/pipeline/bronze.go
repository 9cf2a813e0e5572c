package pipeline

// bronze.go - raw ingestion of the three source extracts

import (
	"context"
	"fmt"
	"os"

	"github.com/lakeline-labs/lakeline/internal/adapter"
)

// Bronze table names.
const (
	BronzeCustomers  = "bronze_customers"
	BronzeWorkOrders = "bronze_work_orders"
	BronzePartsSales = "bronze_parts_sales"
)

// LoadBronze reads the three raw CSV extracts into bronze tables. Columns
// are ingested as text with no validation; malformed rows pass through
// unchanged. A missing or unreadable source is fatal.
func LoadBronze(ctx context.Context, db adapter.Adapter, sources Sources) error {
	inputs := []struct {
		table string
		path  string
	}{
		{BronzeCustomers, sources.Customers},
		{BronzeWorkOrders, sources.WorkOrders},
		{BronzePartsSales, sources.PartsSales},
	}

	for _, in := range inputs {
		if _, err := os.Stat(in.path); err != nil {
			return fmt.Errorf("source unavailable: %s: %w", in.path, err)
		}
		if err := db.LoadCSV(ctx, in.table, in.path); err != nil {
			return fmt.Errorf("failed to load %s from %s: %w", in.table, in.path, err)
		}
	}

	return nil
}
