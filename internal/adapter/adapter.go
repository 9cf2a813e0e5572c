// Package adapter provides the database adapter interface and
// implementations for Lakeline's tabular execution engine.
package adapter

import (
	"context"
	"database/sql"
)

// Config holds the configuration for connecting to a database.
type Config struct {
	// Type specifies the database type (e.g., "duckdb")
	Type string

	// Path is the file path for file-based databases.
	// Use ":memory:" (or leave empty) for an in-memory database.
	Path string

	// Options contains additional driver-specific options
	Options map[string]string
}

// Rows wraps sql.Rows to provide a consistent interface across adapters.
type Rows struct {
	*sql.Rows
}

// Adapter defines the interface the pipeline uses to talk to the tabular
// execution engine. It covers connection lifecycle, SQL execution, CSV
// ingestion, and single-file CSV export.
type Adapter interface {
	// Connect establishes a connection using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// LoadCSV loads a header-bearing CSV file into a table with every
	// column typed as text. The table is created or replaced.
	LoadCSV(ctx context.Context, tableName, filePath string) error

	// CopyCSV writes the contents of a table or view to exactly one CSV
	// file with a header row.
	CopyCSV(ctx context.Context, tableName, filePath string) error
}
