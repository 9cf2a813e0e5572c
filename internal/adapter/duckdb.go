package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

func init() {
	Register("duckdb", func() Adapter { return NewDuckDBAdapter() })
}

// DuckDBAdapter implements the Adapter interface for DuckDB.
type DuckDBAdapter struct {
	db     *sql.DB
	config Config
}

// NewDuckDBAdapter creates a new DuckDB adapter instance.
func NewDuckDBAdapter() *DuckDBAdapter {
	return &DuckDBAdapter{}
}

// Connect establishes a connection to DuckDB.
// Use ":memory:" (or an empty path) for an in-memory database.
func (a *DuckDBAdapter) Connect(ctx context.Context, cfg Config) error {
	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	a.db = db
	a.config = cfg

	return nil
}

// Close closes the DuckDB connection.
func (a *DuckDBAdapter) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (a *DuckDBAdapter) Exec(ctx context.Context, sqlStr string) error {
	if a.db == nil {
		return fmt.Errorf("database connection not established")
	}

	if _, err := a.db.ExecContext(ctx, sqlStr); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}

	return nil
}

// Query executes a SQL statement that returns rows.
func (a *DuckDBAdapter) Query(ctx context.Context, sqlStr string) (*Rows, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := a.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	return &Rows{Rows: rows}, nil
}

// LoadCSV loads a header-bearing CSV file into a table. Every column is
// typed VARCHAR so no values are reinterpreted at ingestion time; typing
// happens in later pipeline stages.
func (a *DuckDBAdapter) LoadCSV(ctx context.Context, tableName, filePath string) error {
	if a.db == nil {
		return fmt.Errorf("database connection not established")
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	query := fmt.Sprintf(
		"CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv(%s, header = true, all_varchar = true)",
		tableName,
		quoteLiteral(absPath),
	)

	if err := a.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to load CSV: %w", err)
	}

	return nil
}

// CopyCSV writes a table or view to a single CSV file with a header row.
func (a *DuckDBAdapter) CopyCSV(ctx context.Context, tableName, filePath string) error {
	if a.db == nil {
		return fmt.Errorf("database connection not established")
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	query := fmt.Sprintf(
		"COPY (SELECT * FROM %s) TO %s (FORMAT CSV, HEADER)",
		tableName,
		quoteLiteral(absPath),
	)

	if err := a.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to copy table to CSV: %w", err)
	}

	return nil
}

// quoteLiteral quotes a string as a SQL literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Ensure DuckDBAdapter implements Adapter interface
var _ Adapter = (*DuckDBAdapter)(nil)
