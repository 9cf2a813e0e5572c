package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lakeline-labs/lakeline/internal/adapter"
	"github.com/lakeline-labs/lakeline/internal/pipeline"
	"github.com/lakeline-labs/lakeline/pkg/core"
	"github.com/spf13/cobra"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	JSONOutput bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the full pipeline",
		Long: `Ingest the raw extracts, build the silver and gold layers, evaluate
data-quality rules, and export every output as a single CSV file.

Sources are read from the configured sources directory; outputs are written
under the configured output directory (gold/ and dq/).`,
		Example: `  # Run against ./data, writing to ./output
  lakeline run

  # Run with explicit directories and a persistent DuckDB file
  lakeline run --sources-dir extracts --output-dir warehouse --database lake.duckdb

  # Machine-readable result for CI
  lakeline run --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Output the run record as JSON")

	return cmd
}

func runRun(cmd *cobra.Command, opts *RunOptions) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	logger := GetLogger(ctx)

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	dbCfg := adapter.Config{Type: "duckdb", Path: cfg.DatabasePath}
	db, err := adapter.New(dbCfg)
	if err != nil {
		return err
	}
	if err := db.Connect(ctx, dbCfg); err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	p := pipeline.New(db, store, pipeline.Config{
		Sources: pipeline.Sources{
			Customers:  cfg.CustomersPath(),
			WorkOrders: cfg.WorkOrdersPath(),
			PartsSales: cfg.PartsSalesPath(),
		},
		OutputDir:   cfg.OutputDir,
		Environment: cfg.Environment,
		Logger:      logger,
	})

	startTime := time.Now()
	run, runErr := p.Run(ctx)

	if opts.JSONOutput {
		if run != nil {
			data, _ := json.Marshal(runRecord(run))
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}
		return runErr
	}

	if run != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Run %s: %s\n", run.ID, run.Status)
		if run.Error != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Error: %s\n", run.Error)
		}
		if run.Status == core.RunStatusCompleted {
			fmt.Fprintf(cmd.OutOrStdout(), "Rows: dim_customer=%d fact_work_order=%d fact_parts_sales=%d\n",
				run.Counts.DimCustomer, run.Counts.FactWorkOrder, run.Counts.FactPartsSales)

			if results, err := store.GetDQResultsForRun(run.ID); err == nil && len(results) > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
				renderDQResults(cmd.OutOrStdout(), results)
			}
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	return runErr
}

// runJSON is the JSON shape emitted by --json.
type runJSON struct {
	RunID              string  `json:"run_id"`
	Environment        string  `json:"environment"`
	Status             string  `json:"status"`
	StartedAt          string  `json:"started_at"`
	CompletedAt        string  `json:"completed_at,omitempty"`
	DurationSeconds    float64 `json:"duration_seconds"`
	RowsDimCustomer    int64   `json:"rows_dim_customer"`
	RowsFactWorkOrder  int64   `json:"rows_fact_work_order"`
	RowsFactPartsSales int64   `json:"rows_fact_parts_sales"`
	Error              string  `json:"error,omitempty"`
}

func runRecord(run *core.Run) runJSON {
	rec := runJSON{
		RunID:              run.ID,
		Environment:        run.Environment,
		Status:             string(run.Status),
		StartedAt:          run.StartedAt.UTC().Format(time.RFC3339),
		DurationSeconds:    run.DurationSeconds,
		RowsDimCustomer:    run.Counts.DimCustomer,
		RowsFactWorkOrder:  run.Counts.FactWorkOrder,
		RowsFactPartsSales: run.Counts.FactPartsSales,
		Error:              run.Error,
	}
	if run.CompletedAt != nil {
		rec.CompletedAt = run.CompletedAt.UTC().Format(time.RFC3339)
	}
	return rec
}
