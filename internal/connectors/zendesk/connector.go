package zendesk

import (
	"context"
	"fmt"
	"sync"

	"github.com/helpsync-labs/helpsync-cli/internal/core/domain"
	"github.com/helpsync-labs/helpsync-cli/internal/core/ports/driven"
	"github.com/helpsync-labs/helpsync-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.ArticleConnector = (*Connector)(nil)

// Connector fetches articles from a Zendesk-style help center.
type Connector struct {
	config Config
	client *Client
	mu     sync.Mutex
	closed bool
}

// New creates a new help-center connector.
func New(cfg Config) (*Connector, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Connector{
		config: cfg,
		client: NewClient(cfg),
	}, nil
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return "zendesk"
}

// Validate checks the help center is reachable by fetching a minimal
// listing page.
func (c *Connector) Validate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("connector closed")
	}

	if _, err := c.client.ListArticles(ctx, 1, 1); err != nil {
		return fmt.Errorf("list articles: %w", err)
	}
	return nil
}

// FullSync streams all articles from the help center. The listing is
// paginated; a page that keeps failing after bounded retries aborts the
// fetch with a fatal error on the error channel. Individual malformed
// records are skipped and logged.
func (c *Connector) FullSync(ctx context.Context) (<-chan domain.RawArticle, <-chan error) {
	articlesChan := make(chan domain.RawArticle)
	errsChan := make(chan error, 1)

	go func() {
		defer close(articlesChan)
		defer close(errsChan)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			errsChan <- fmt.Errorf("connector closed")
			return
		}
		c.mu.Unlock()

		fetched := 0
		skipped := 0

		for page := 1; ; page++ {
			select {
			case <-ctx.Done():
				errsChan <- ctx.Err()
				return
			default:
			}

			listing, err := c.client.ListArticles(ctx, page, c.config.PerPage)
			if err != nil {
				errsChan <- fmt.Errorf("list articles page %d: %w", page, err)
				return
			}
			logger.Debug("Fetched page %d: %d articles", page, len(listing.Articles))

			for i := range listing.Articles {
				article := &listing.Articles[i]

				if c.config.Limit > 0 && fetched >= c.config.Limit {
					logger.Info("Article limit reached (%d), stopping fetch", c.config.Limit)
					return
				}

				raw, ok := c.toRawArticle(article)
				if !ok {
					skipped++
					continue
				}

				select {
				case <-ctx.Done():
					errsChan <- ctx.Err()
					return
				case articlesChan <- raw:
					fetched++
				}
			}

			if len(listing.Articles) == 0 || listing.NextPage == nil || *listing.NextPage == "" {
				break
			}
		}

		if skipped > 0 {
			logger.Warn("Skipped %d malformed or empty source records", skipped)
		}
	}()

	return articlesChan, errsChan
}

// toRawArticle validates and converts a listing record. Records without
// an id or body cannot be synced and are skipped.
func (c *Connector) toRawArticle(a *Article) (domain.RawArticle, bool) {
	if a.ID == 0 {
		logger.Warn("Skipping record with missing id (title %q)", a.Title)
		return domain.RawArticle{}, false
	}
	if a.Draft {
		logger.Debug("Skipping draft article %d", a.ID)
		return domain.RawArticle{}, false
	}
	if a.Body == "" {
		logger.Warn("Skipping article %d: empty body", a.ID)
		return domain.RawArticle{}, false
	}

	return domain.RawArticle{
		ID:        a.ID,
		Title:     a.Title,
		BodyHTML:  a.Body,
		URL:       a.HTMLURL,
		UpdatedAt: a.UpdatedAt,
	}, true
}

// Close releases resources.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
