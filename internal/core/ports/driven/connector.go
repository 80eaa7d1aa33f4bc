package driven

import (
	"context"

	"github.com/helpsync-labs/helpsync-cli/internal/core/domain"
)

// ArticleConnector fetches raw articles from the content source.
type ArticleConnector interface {
	// Type returns the connector type identifier.
	Type() string

	// Validate checks that the source is reachable and the connector is
	// properly configured. Makes a lightweight API call.
	Validate(ctx context.Context) error

	// FullSync fetches all articles from the source. Articles are
	// streamed on the first channel; a fatal fetch error is sent on the
	// second. Both channels are closed when the fetch finishes. A single
	// malformed record is skipped by the connector, not reported here.
	FullSync(ctx context.Context) (<-chan domain.RawArticle, <-chan error)

	// Close releases resources.
	Close() error
}

// Normaliser converts a raw article into a canonical document with
// normalised text content and a content hash.
type Normaliser interface {
	Normalise(ctx context.Context, raw *domain.RawArticle) (*domain.Document, error)
}
