package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/helpsync-labs/helpsync-cli/internal/core/domain"
	"github.com/helpsync-labs/helpsync-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

const docExt = ".md"

// DocumentStore persists normalised documents as one markdown file per
// document id under a single directory.
type DocumentStore struct {
	dir string
}

// NewDocumentStore creates a document store rooted at dir, creating the
// directory if needed.
func NewDocumentStore(dir string) (*DocumentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &DocumentStore{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *DocumentStore) Dir() string {
	return s.dir
}

// Save writes the document content atomically and returns its path.
func (s *DocumentStore) Save(_ context.Context, doc *domain.Document) (string, error) {
	path := filepath.Join(s.dir, doc.Filename())

	tmp, err := os.CreateTemp(s.dir, "."+doc.ID+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.WriteString(doc.Content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("rename document: %w", err)
	}
	return path, nil
}

// Load reads a stored document by id.
func (s *DocumentStore) Load(_ context.Context, id string) (*domain.Document, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, id+docExt))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read document %s: %w", id, err)
	}
	return parseDocument(id, string(data)), nil
}

// LoadAll reads every stored document, sorted by id.
func (s *DocumentStore) LoadAll(ctx context.Context) ([]domain.Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read document dir: %w", err)
	}

	var docs []domain.Document
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, docExt) || strings.HasPrefix(name, ".") {
			continue
		}
		doc, err := s.Load(ctx, strings.TrimSuffix(name, docExt))
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Delete removes a stored document. Absent ids are not an error.
func (s *DocumentStore) Delete(_ context.Context, id string) error {
	err := os.Remove(filepath.Join(s.dir, id+docExt))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// Clear removes all stored documents.
func (s *DocumentStore) Clear(_ context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read document dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// parseDocument reconstructs a document from its stored content. The
// URL and title come from the header lines the normaliser wrote; the
// hash is recomputed from the content, which is what makes the local
// store the source of truth.
func parseDocument(id, content string) *domain.Document {
	doc := &domain.Document{
		ID:          id,
		Content:     content,
		ContentHash: domain.HashContent(content),
	}
	for _, line := range strings.Split(content, "\n") {
		if doc.URL == "" && strings.HasPrefix(line, "Article URL: ") {
			doc.URL = strings.TrimSpace(strings.TrimPrefix(line, "Article URL: "))
			continue
		}
		if strings.HasPrefix(line, "# ") {
			doc.Title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			break
		}
	}
	return doc
}
