package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// RawArticle represents an article record as fetched from the help-center
// API, before normalisation. The body is raw HTML.
type RawArticle struct {
	// ID is the source-assigned article identifier.
	ID int64

	// Title is the article title.
	Title string

	// BodyHTML is the raw HTML body.
	BodyHTML string

	// URL is the canonical public URL of the article.
	URL string

	// UpdatedAt is the source-reported last modification time.
	UpdatedAt time.Time
}

// Document is the canonical representation of an article after
// normalisation. Content is the clean text that gets uploaded to the
// remote index; ContentHash is the change-detection signal.
type Document struct {
	// ID is the stable document identifier, unique within a run.
	ID string

	// Title is the human-readable title.
	Title string

	// Content is the normalised body text, including the canonical URL
	// header line. Uploaded to the remote index verbatim.
	Content string

	// URL is the canonical source URL.
	URL string

	// ContentHash is the hex sha256 digest of Content.
	ContentHash string

	// UpdatedAt is the source-reported last modification time.
	UpdatedAt time.Time

	// FetchedAt is when this document was fetched and normalised.
	FetchedAt time.Time
}

// Filename returns the name the document is stored and uploaded under.
func (d *Document) Filename() string {
	return d.ID + ".md"
}

// HashContent returns the hex sha256 digest of the given content.
// The digest is computed over normalised text, never raw HTML, so markup
// churn that does not change the text does not register as a change.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
