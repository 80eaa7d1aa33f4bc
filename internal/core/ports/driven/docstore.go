package driven

import (
	"context"

	"github.com/helpsync-labs/helpsync-cli/internal/core/domain"
)

// DocumentStore persists normalised documents locally, keyed by document
// id. It is the local source of truth for document content, independent
// of the remote index's bookkeeping. Writes must be atomic per document.
type DocumentStore interface {
	// Save writes a document and returns its local path.
	Save(ctx context.Context, doc *domain.Document) (string, error)

	// Load retrieves a stored document by id.
	// Returns domain.ErrNotFound if absent.
	Load(ctx context.Context, id string) (*domain.Document, error)

	// LoadAll returns every stored document.
	LoadAll(ctx context.Context) ([]domain.Document, error)

	// Delete removes a stored document. Absent ids are not an error.
	Delete(ctx context.Context, id string) error

	// Clear removes all stored documents.
	Clear(ctx context.Context) error
}

// LedgerStore persists the change ledger. Saves must be atomic so a
// crash never leaves a torn ledger observable to later runs.
type LedgerStore interface {
	// Load reads the persisted ledger. A missing file yields an empty
	// ledger. A torn or unreadable file yields an empty ledger together
	// with an error wrapping domain.ErrLedgerCorrupt, letting the caller
	// fail open into a full resync.
	Load(ctx context.Context) (domain.Ledger, error)

	// Save atomically persists the ledger.
	Save(ctx context.Context, ledger domain.Ledger) error

	// Reset removes the persisted ledger.
	Reset(ctx context.Context) error
}
