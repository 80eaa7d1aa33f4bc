package zendesk

import (
	"strings"
	"time"
)

// Default configuration values.
const (
	// DefaultLocale is the help-center locale segment.
	DefaultLocale = "en-us"

	// DefaultPerPage is the listing page size.
	DefaultPerPage = 100

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the bounded retry count for a failed page.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the initial backoff delay between retries.
	DefaultRetryDelay = time.Second
)

// Config holds the connector configuration for one help-center source.
type Config struct {
	// BaseURL is the help-center root, e.g. "https://support.example.com".
	BaseURL string

	// Locale selects the article locale (default "en-us").
	Locale string

	// PerPage is the listing page size (default 100).
	PerPage int

	// Limit caps the number of articles fetched per run. Zero means
	// no cap.
	Limit int

	// Timeout is the per-request timeout (default 30s).
	Timeout time.Duration

	// MaxRetries bounds retries per page before the fetch escalates to
	// a fatal error (default 3).
	MaxRetries int

	// RetryDelay is the initial backoff delay; it doubles per attempt
	// (default 1s).
	RetryDelay time.Duration
}

// withDefaults returns a copy with unset fields filled in.
func (c Config) withDefaults() Config {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.PerPage <= 0 {
		c.PerPage = DefaultPerPage
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	return c
}

// validate checks required fields.
func (c Config) validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	return nil
}
