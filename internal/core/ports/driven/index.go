package driven

import (
	"context"

	"github.com/helpsync-labs/helpsync-cli/internal/core/domain"
)

// DocumentIndex is the remote managed search index. Uploads are
// processed asynchronously by the remote service; chunking and embedding
// are entirely its concern.
type DocumentIndex interface {
	// Upload sends file content to the index and attaches it for
	// processing. Returns the remote file handle with its initial,
	// usually non-terminal, status.
	Upload(ctx context.Context, filename string, content []byte) (*domain.RemoteFile, error)

	// Status fetches the current processing status of a file.
	Status(ctx context.Context, fileID string) (*domain.RemoteFile, error)

	// Delete removes a file from the index. Deleting a file that is
	// already absent is success. A distinguishable remote conflict is
	// returned wrapping domain.ErrDeleteConflict.
	Delete(ctx context.Context, fileID string) error

	// List returns all file handles currently in the index.
	List(ctx context.Context) ([]domain.RemoteFile, error)

	// Counts returns the index's own per-status file totals.
	Counts(ctx context.Context) (*domain.FileCounts, error)
}
