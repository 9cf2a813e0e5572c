// Package config loads Lakeline configuration from defaults, an optional
// lakeline.yaml file, LAKELINE_ environment variables, and CLI flags, in
// ascending precedence.
package config

import "path/filepath"

// Config holds all pipeline configuration options.
type Config struct {
	// SourcesDir contains customers.csv, work_orders.csv, parts_sales.csv.
	SourcesDir string `koanf:"sources_dir"`
	// OutputDir is the root for the gold/ and dq/ CSV outputs.
	OutputDir string `koanf:"output_dir"`
	// DatabasePath is the DuckDB database path (empty for in-memory).
	DatabasePath string `koanf:"database"`
	// StatePath is the SQLite run-history database path.
	StatePath string `koanf:"state_path"`
	// Environment is the environment name recorded on runs.
	Environment string `koanf:"environment"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultSourcesDir = "data"
	DefaultOutputDir  = "output"
	DefaultStateFile  = ".lakeline/state.db"
	DefaultEnv        = "dev"
)

// Source file names expected under SourcesDir.
const (
	CustomersFile  = "customers.csv"
	WorkOrdersFile = "work_orders.csv"
	PartsSalesFile = "parts_sales.csv"
)

// CustomersPath returns the path of the customers extract.
func (c *Config) CustomersPath() string {
	return filepath.Join(c.SourcesDir, CustomersFile)
}

// WorkOrdersPath returns the path of the work-orders extract.
func (c *Config) WorkOrdersPath() string {
	return filepath.Join(c.SourcesDir, WorkOrdersFile)
}

// PartsSalesPath returns the path of the parts-sales extract.
func (c *Config) PartsSalesPath() string {
	return filepath.Join(c.SourcesDir, PartsSalesFile)
}
