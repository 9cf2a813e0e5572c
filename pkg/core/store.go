package core

// Store defines the interface for run-history state management.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	// Run operations
	CreateRun(env string) (*Run, error)
	GetRun(id string) (*Run, error)
	CompleteRun(id string, status RunStatus, errMsg string, counts *RowCounts) error
	GetLatestRun(env string) (*Run, error)
	ListRuns(limit int) ([]*Run, error)

	// Data-quality operations
	SaveDQResults(runID string, results []DQResult) error
	GetDQResultsForRun(runID string) ([]DQResult, error)
}
