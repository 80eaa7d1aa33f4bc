package domain

import "time"

// Failure records a per-document sync error.
type Failure struct {
	// DocumentID is the affected document.
	DocumentID string

	// Op is the operation that failed ("upload" or "delete").
	Op string

	// Reason is the error message.
	Reason string
}

// RunSummary aggregates the outcome of one pipeline run. Created fresh
// per run, reported and discarded.
type RunSummary struct {
	// RunID uniquely identifies this run in logs.
	RunID string

	AddedCount     int
	UpdatedCount   int
	UnchangedCount int
	RemovedCount   int
	FailedCount    int

	// Failures lists every per-document error in this run.
	Failures []Failure

	StartedAt  time.Time
	FinishedAt time.Time
}

// NewRunSummary builds a summary from a delta and its sync results.
// Counts reflect the delta classification; failures are per-item sync
// errors.
func NewRunSummary(runID string, delta *Delta, results *SyncResults) *RunSummary {
	return &RunSummary{
		RunID:          runID,
		AddedCount:     len(delta.Added),
		UpdatedCount:   len(delta.Updated),
		UnchangedCount: len(delta.Unchanged),
		RemovedCount:   len(delta.Removed),
		FailedCount:    len(results.Failures),
		Failures:       results.Failures,
	}
}

// Failed reports whether any per-document operation failed.
func (s *RunSummary) Failed() bool {
	return s.FailedCount > 0
}
