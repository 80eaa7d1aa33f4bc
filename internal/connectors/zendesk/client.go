package zendesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/helpsync-labs/helpsync-cli/internal/logger"
)

// politenessRate throttles listing requests (~2 req/sec). The public
// help-center API is unauthenticated and shared, so the client paces
// itself rather than relying on 429 responses.
const politenessRate = 2.0

// Article is a single record from the help-center listing.
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	HTMLURL   string    `json:"html_url"`
	UpdatedAt time.Time `json:"updated_at"`
	Draft     bool      `json:"draft"`
}

// ArticlesPage is one page of the article listing.
type ArticlesPage struct {
	Articles  []Article `json:"articles"`
	NextPage  *string   `json:"next_page"`
	Page      int       `json:"page"`
	PageCount int       `json:"page_count"`
}

// Client is a minimal help-center API client with bounded retries and
// proactive throttling.
type Client struct {
	httpClient *http.Client
	apiBase    string
	maxRetries int
	retryDelay time.Duration
	limiter    *rate.Limiter
}

// NewClient creates a help-center API client from a connector config.
// The config must already have defaults applied.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiBase:    fmt.Sprintf("%s/api/v2/help_center/%s", cfg.BaseURL, cfg.Locale),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		limiter:    rate.NewLimiter(rate.Limit(politenessRate), 1),
	}
}

// ListArticles fetches one page of the article listing.
func (c *Client) ListArticles(ctx context.Context, page, perPage int) (*ArticlesPage, error) {
	url := fmt.Sprintf("%s/articles.json?page=%d&per_page=%d", c.apiBase, page, perPage)

	var result ArticlesPage
	if err := c.getJSON(ctx, url, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// getJSON performs a GET with bounded retries and exponential backoff.
// Transient failures (network errors, 429, 5xx) are retried; other
// non-2xx responses fail immediately with an APIError.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	var lastErr error
	delay := c.retryDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Debug("Retrying %s (attempt %d/%d) after %s", url, attempt, c.maxRetries, delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		lastErr = c.doGet(ctx, url, v)
		if lastErr == nil {
			return nil
		}

		var apiErr *APIError
		if errors.As(lastErr, &apiErr) && !isRetryable(apiErr.StatusCode) {
			return lastErr
		}
	}

	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) doGet(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			URL:        url,
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
