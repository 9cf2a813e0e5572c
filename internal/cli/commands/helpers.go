package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lakeline-labs/lakeline/internal/config"
	"github.com/lakeline-labs/lakeline/internal/state"
	"github.com/lakeline-labs/lakeline/pkg/core"
)

// openStore opens and migrates the run-history store, creating its parent
// directory if needed.
func openStore(cfg *config.Config, logger *slog.Logger) (*state.SQLiteStore, error) {
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}

	return store, nil
}

// renderDQResults renders data-quality results as a terminal table.
func renderDQResults(w io.Writer, results []core.DQResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Check", "Table", "Metric", "Threshold", "Status"})

	for _, r := range results {
		t.AppendRow(table.Row{
			r.CheckName,
			r.TableName,
			formatMetric(r.MetricValue),
			formatMetric(r.Threshold),
			string(r.Status),
		})
	}

	t.Render()
}

func formatMetric(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
