package state

import (
	"fmt"

	"github.com/lakeline-labs/lakeline/pkg/core"
)

// SaveDQResults persists the data-quality results evaluated for a run.
func (s *SQLiteStore) SaveDQResults(runID string, results []core.DQResult) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(
		`INSERT INTO dq_results (run_id, check_name, table_name, metric_value, threshold, status, details)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range results {
		if _, err := stmt.Exec(runID, r.CheckName, r.TableName, r.MetricValue, r.Threshold, string(r.Status), r.Details); err != nil {
			return fmt.Errorf("failed to insert dq result %s: %w", r.CheckName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dq results: %w", err)
	}
	return nil
}

// GetDQResultsForRun retrieves the data-quality results recorded for a run,
// in evaluation order.
func (s *SQLiteStore) GetDQResultsForRun(runID string) ([]core.DQResult, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT check_name, table_name, metric_value, threshold, status, details
		 FROM dq_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dq results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []core.DQResult
	for rows.Next() {
		var r core.DQResult
		var status string
		if err := rows.Scan(&r.CheckName, &r.TableName, &r.MetricValue, &r.Threshold, &status, &r.Details); err != nil {
			return nil, fmt.Errorf("failed to scan dq result: %w", err)
		}
		r.Status = core.DQStatus(status)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dq results: %w", err)
	}

	return results, nil
}

// Ensure SQLiteStore implements core.Store.
var _ core.Store = (*SQLiteStore)(nil)
