// Package pipeline implements the workshop lakehouse batch pipeline.
// It transforms three raw CSV extracts (customers, work orders, parts
// sales) through bronze, silver, and gold stages on DuckDB, evaluates
// data-quality rules against the modeled output, and exports every gold
// and DQ entity as a single CSV file.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lakeline-labs/lakeline/internal/adapter"
	"github.com/lakeline-labs/lakeline/pkg/core"
)

// Sources holds the paths of the three raw extracts.
type Sources struct {
	Customers  string
	WorkOrders string
	PartsSales string
}

// Config holds pipeline configuration.
type Config struct {
	// Sources are the raw CSV inputs.
	Sources Sources
	// OutputDir is the root directory for gold/ and dq/ CSV outputs.
	OutputDir string
	// Environment is the environment name recorded on the run (dev, prod).
	Environment string
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Pipeline orchestrates one full batch execution. Stages run in strict
// sequence; each stage is a pure function of the database handle and the
// fully materialized output of its predecessor.
type Pipeline struct {
	db          adapter.Adapter
	store       core.Store
	logger      *slog.Logger
	sources     Sources
	outputDir   string
	environment string
}

// New creates a pipeline bound to a connected adapter and an open store.
func New(db adapter.Adapter, store core.Store, cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	env := cfg.Environment
	if env == "" {
		env = "dev"
	}

	return &Pipeline{
		db:          db,
		store:       store,
		logger:      logger,
		sources:     cfg.Sources,
		outputDir:   cfg.OutputDir,
		environment: env,
	}
}

// Run executes the full pipeline: ingest, conform, model, export, evaluate
// DQ, and record run metrics. Any stage error fails the run before any
// output file is written; DQ FAIL verdicts do not.
func (p *Pipeline) Run(ctx context.Context) (*core.Run, error) {
	p.logger.Info("starting run", "environment", p.environment)

	run, err := p.store.CreateRun(p.environment)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	p.logger.Debug("created run", "run_id", run.ID)

	counts, results, runErr := p.execute(ctx, run)

	if runErr != nil {
		p.logger.Info("run failed", "run_id", run.ID, "error", runErr.Error())
		_ = p.store.CompleteRun(run.ID, core.RunStatusFailed, runErr.Error(), nil)
	} else {
		p.logger.Info("run completed", "run_id", run.ID,
			"dim_customer", counts.DimCustomer,
			"fact_work_order", counts.FactWorkOrder,
			"fact_parts_sales", counts.FactPartsSales,
			"dq_failures", countFailures(results))
		_ = p.store.CompleteRun(run.ID, core.RunStatusCompleted, "", &counts)
	}

	run, _ = p.store.GetRun(run.ID)
	return run, runErr
}

// execute runs the stage sequence for a created run. It returns the gold
// row counts and DQ results on success.
func (p *Pipeline) execute(ctx context.Context, run *core.Run) (core.RowCounts, []core.DQResult, error) {
	var counts core.RowCounts

	stages := []struct {
		name string
		fn   func(context.Context, adapter.Adapter) error
	}{
		{"bronze", func(ctx context.Context, db adapter.Adapter) error {
			return LoadBronze(ctx, db, p.sources)
		}},
		{"silver", BuildSilver},
		{"gold", BuildGold},
		{"dim_date", BuildDimDate},
		{"analytics_views", BuildAnalyticsViews},
	}

	for _, stage := range stages {
		start := time.Now()
		if err := stage.fn(ctx, p.db); err != nil {
			return counts, nil, fmt.Errorf("%s stage: %w", stage.name, err)
		}
		p.logger.Debug("stage completed", "stage", stage.name, "elapsed_ms", time.Since(start).Milliseconds())
	}

	counts, err := GoldRowCounts(ctx, p.db)
	if err != nil {
		return counts, nil, fmt.Errorf("failed to count gold outputs: %w", err)
	}

	if err := ExportGold(ctx, p.db, p.outputDir); err != nil {
		return counts, nil, fmt.Errorf("failed to export gold outputs: %w", err)
	}

	results, err := EvaluateRules(ctx, p.db)
	if err != nil {
		return counts, nil, fmt.Errorf("dq evaluation: %w", err)
	}

	for _, r := range results {
		p.logger.Debug("dq rule evaluated", "rule", r.CheckName, "table", r.TableName,
			"metric", r.MetricValue, "threshold", r.Threshold, "status", string(r.Status))
	}

	if err := WriteDQResults(ctx, p.db, results); err != nil {
		return counts, nil, fmt.Errorf("failed to write dq results: %w", err)
	}
	if err := ExportDQResults(ctx, p.db, p.outputDir); err != nil {
		return counts, nil, fmt.Errorf("failed to export dq results: %w", err)
	}
	if err := p.store.SaveDQResults(run.ID, results); err != nil {
		return counts, nil, fmt.Errorf("failed to save dq results: %w", err)
	}

	endedAt := time.Now().UTC()
	metrics := RunMetrics{
		RunID:     run.ID,
		StartedAt: run.StartedAt,
		EndedAt:   endedAt,
		Counts:    counts,
	}
	if err := WriteRunMetrics(ctx, p.db, metrics); err != nil {
		return counts, nil, fmt.Errorf("failed to write run metrics: %w", err)
	}
	if err := ExportRunMetrics(ctx, p.db, p.outputDir); err != nil {
		return counts, nil, fmt.Errorf("failed to export run metrics: %w", err)
	}

	return counts, results, nil
}

func countFailures(results []core.DQResult) int {
	failures := 0
	for _, r := range results {
		if !r.Passed() {
			failures++
		}
	}
	return failures
}
