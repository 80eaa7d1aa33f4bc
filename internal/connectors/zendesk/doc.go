// Package zendesk implements the ArticleConnector for Zendesk-style
// help-center APIs. It paginates the public article listing, retries
// transient failures with backoff, and skips malformed records without
// aborting the fetch.
package zendesk
