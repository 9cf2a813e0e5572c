package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lakeline-labs/lakeline/pkg/core"
)

// CreateRun creates a new pipeline run in running state.
func (s *SQLiteStore) CreateRun(env string) (*core.Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	id := generateID()
	now := time.Now().UTC()

	s.logger.Debug("creating run", slog.String("id", id), slog.String("environment", env))

	_, err := s.db.Exec(
		`INSERT INTO runs (id, environment, status, started_at) VALUES (?, ?, ?, ?)`,
		id, env, string(core.RunStatusRunning), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	return &core.Run{
		ID:          id,
		Environment: env,
		Status:      core.RunStatusRunning,
		StartedAt:   now,
	}, nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(id string) (*core.Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(runSelectColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// CompleteRun marks a run as completed or failed, recording the elapsed
// duration and, when provided, the gold row counts.
func (s *SQLiteStore) CompleteRun(id string, status core.RunStatus, errMsg string, counts *core.RowCounts) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	run, err := s.GetRun(id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	duration := now.Sub(run.StartedAt).Seconds()

	var c core.RowCounts
	if counts != nil {
		c = *counts
	}

	_, err = s.db.Exec(
		`UPDATE runs
		 SET status = ?, completed_at = ?, duration_seconds = ?,
		     rows_dim_customer = ?, rows_fact_work_order = ?, rows_fact_parts_sales = ?,
		     error = ?
		 WHERE id = ?`,
		string(status), now.Format(time.RFC3339Nano), duration,
		c.DimCustomer, c.FactWorkOrder, c.FactPartsSales,
		errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetLatestRun retrieves the most recent run for an environment.
// Returns nil without error when no runs exist.
func (s *SQLiteStore) GetLatestRun(env string) (*core.Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		runSelectColumns+` FROM runs WHERE environment = ? ORDER BY started_at DESC LIMIT 1`, env)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves the most recent runs up to the given limit.
func (s *SQLiteStore) ListRuns(limit int) ([]*core.Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(runSelectColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*core.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

const runSelectColumns = `SELECT id, environment, status, started_at, completed_at, duration_seconds,
	rows_dim_customer, rows_fact_work_order, rows_fact_parts_sales, error`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun scans one runs row into a core.Run.
func scanRun(sc scanner) (*core.Run, error) {
	var (
		run         core.Run
		startedAt   string
		completedAt sql.NullString
	)

	err := sc.Scan(
		&run.ID, &run.Environment, &run.Status, &startedAt, &completedAt, &run.DurationSeconds,
		&run.Counts.DimCustomer, &run.Counts.FactWorkOrder, &run.Counts.FactPartsSales, &run.Error,
	)
	if err != nil {
		return nil, err
	}

	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid started_at %q: %w", startedAt, err)
	}
	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("invalid completed_at %q: %w", completedAt.String, err)
		}
		run.CompletedAt = &t
	}

	return &run, nil
}
