// Package core defines the shared domain types for the Lakeline pipeline:
// run records, gold row counts, and data-quality results. It is imported by
// both the pipeline and the state store and depends only on the standard
// library.
package core

import "time"

// RunStatus represents the status of a pipeline run.
type RunStatus string

// Run status constants.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RowCounts holds the row counts of the three gold outputs of a run.
type RowCounts struct {
	DimCustomer    int64
	FactWorkOrder  int64
	FactPartsSales int64
}

// Run represents a single pipeline execution.
type Run struct {
	ID              string
	Environment     string
	Status          RunStatus
	StartedAt       time.Time
	CompletedAt     *time.Time
	DurationSeconds float64
	Counts          RowCounts
	Error           string
}

// DQStatus is the verdict of a data-quality rule.
type DQStatus string

// DQ verdict constants.
const (
	DQStatusPass DQStatus = "PASS"
	DQStatusFail DQStatus = "FAIL"
)

// DQResult is the outcome of one data-quality rule evaluated against the
// modeled output.
type DQResult struct {
	CheckName   string
	TableName   string
	MetricValue float64
	Threshold   float64
	Status      DQStatus
	Details     string
}

// Passed reports whether the rule verdict is PASS.
func (r DQResult) Passed() bool {
	return r.Status == DQStatusPass
}
