package adapter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDuckDBAdapter_ConnectInMemory(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	err := adapter.Connect(ctx, Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to connect to in-memory DuckDB: %v", err)
	}
	defer adapter.Close()
}

func TestDuckDBAdapter_ConnectFileBased(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.duckdb")

	err := adapter.Connect(ctx, Config{Path: dbPath})
	if err != nil {
		t.Fatalf("failed to connect to file-based DuckDB: %v", err)
	}
	defer adapter.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestDuckDBAdapter_ExecAndQuery(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	if err := adapter.Connect(ctx, Config{Path: ":memory:"}); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer adapter.Close()

	err := adapter.Exec(ctx, `
		CREATE TABLE test_table (
			id INTEGER,
			name VARCHAR
		)
	`)
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	if err := adapter.Exec(ctx, "INSERT INTO test_table VALUES (1, 'one'), (2, 'two')"); err != nil {
		t.Fatalf("failed to insert rows: %v", err)
	}

	rows, err := adapter.Query(ctx, "SELECT count(*) FROM test_table")
	if err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	defer rows.Close()

	if !rows.Next() {
		t.Fatal("expected one row from count query")
	}
	var count int64
	if err := rows.Scan(&count); err != nil {
		t.Fatalf("failed to scan count: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestDuckDBAdapter_ExecWithoutConnect(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	if err := adapter.Exec(ctx, "SELECT 1"); err == nil {
		t.Error("Exec should fail before Connect")
	}
	if _, err := adapter.Query(ctx, "SELECT 1"); err == nil {
		t.Error("Query should fail before Connect")
	}
}

func TestDuckDBAdapter_LoadCSV(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	if err := adapter.Connect(ctx, Config{Path: ":memory:"}); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer adapter.Close()

	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "input.csv")
	content := "id,amount\n1,10.50\n2,not_a_number\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write CSV fixture: %v", err)
	}

	if err := adapter.LoadCSV(ctx, "raw_input", csvPath); err != nil {
		t.Fatalf("failed to load CSV: %v", err)
	}

	// all_varchar keeps malformed numerics as plain text
	rows, err := adapter.Query(ctx, "SELECT amount FROM raw_input WHERE id = '2'")
	if err != nil {
		t.Fatalf("failed to query loaded table: %v", err)
	}
	defer rows.Close()

	if !rows.Next() {
		t.Fatal("expected a row for id 2")
	}
	var amount string
	if err := rows.Scan(&amount); err != nil {
		t.Fatalf("failed to scan amount: %v", err)
	}
	if amount != "not_a_number" {
		t.Errorf("amount = %q, want %q", amount, "not_a_number")
	}
}

func TestDuckDBAdapter_CopyCSV(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	if err := adapter.Connect(ctx, Config{Path: ":memory:"}); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer adapter.Close()

	if err := adapter.Exec(ctx, "CREATE TABLE out_table AS SELECT 1 AS id, 'a' AS name"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "out.csv")

	if err := adapter.CopyCSV(ctx, "out_table", outPath); err != nil {
		t.Fatalf("failed to copy table to CSV: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read exported CSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("exported CSV has %d lines, want 2 (header + row)", len(lines))
	}
	if lines[0] != "id,name" {
		t.Errorf("header = %q, want %q", lines[0], "id,name")
	}
}
