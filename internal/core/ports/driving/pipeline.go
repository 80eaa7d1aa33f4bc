// Package driving defines the inbound ports exposed to the CLI.
package driving

import (
	"context"

	"github.com/helpsync-labs/helpsync-cli/internal/core/domain"
)

// Pipeline runs the fetch → diff → sync cycle.
type Pipeline interface {
	// Run executes one full pipeline run and returns its summary.
	// A fatal fetch error aborts before any ledger mutation; per-item
	// sync failures are reported in the summary, not as an error.
	Run(ctx context.Context) (*domain.RunSummary, error)
}
