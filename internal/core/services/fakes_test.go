package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/helpsync-labs/helpsync-cli/internal/core/domain"
	"github.com/helpsync-labs/helpsync-cli/internal/core/ports/driven"
)

// fakeConnector streams a fixed set of articles, optionally followed by
// a fatal error.
type fakeConnector struct {
	articles []domain.RawArticle
	fatalErr error
}

var _ driven.ArticleConnector = (*fakeConnector)(nil)

func (c *fakeConnector) Type() string                   { return "fake" }
func (c *fakeConnector) Validate(context.Context) error { return nil }
func (c *fakeConnector) Close() error                   { return nil }

func (c *fakeConnector) FullSync(ctx context.Context) (<-chan domain.RawArticle, <-chan error) {
	articlesCh := make(chan domain.RawArticle)
	errsCh := make(chan error, 1)
	go func() {
		defer close(articlesCh)
		defer close(errsCh)
		for _, a := range c.articles {
			select {
			case articlesCh <- a:
			case <-ctx.Done():
				return
			}
		}
		if c.fatalErr != nil {
			errsCh <- c.fatalErr
		}
	}()
	return articlesCh, errsCh
}

// fakeNormaliser turns the raw body into content directly, hashing it
// like the real normaliser would. IDs listed in failIDs error out.
type fakeNormaliser struct {
	failIDs map[int64]bool
}

var _ driven.Normaliser = (*fakeNormaliser)(nil)

func (n *fakeNormaliser) Normalise(_ context.Context, raw *domain.RawArticle) (*domain.Document, error) {
	if n.failIDs[raw.ID] {
		return nil, fmt.Errorf("malformed body")
	}
	return &domain.Document{
		ID:          strconv.FormatInt(raw.ID, 10),
		Title:       raw.Title,
		Content:     raw.BodyHTML,
		URL:         raw.URL,
		ContentHash: domain.HashContent(raw.BodyHTML),
	}, nil
}

// memDocStore is an in-memory document store.
type memDocStore struct {
	mu   sync.Mutex
	docs map[string]domain.Document
}

var _ driven.DocumentStore = (*memDocStore)(nil)

func newMemDocStore() *memDocStore {
	return &memDocStore{docs: make(map[string]domain.Document)}
}

func (s *memDocStore) Save(_ context.Context, doc *domain.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = *doc
	return doc.Filename(), nil
}

func (s *memDocStore) Load(_ context.Context, id string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (s *memDocStore) LoadAll(context.Context) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []domain.Document
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *memDocStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func (s *memDocStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]domain.Document)
	return nil
}

// memLedgerStore is an in-memory ledger store with an optional load
// error for corruption scenarios.
type memLedgerStore struct {
	mu      sync.Mutex
	ledger  domain.Ledger
	loadErr error
	saves   int
}

var _ driven.LedgerStore = (*memLedgerStore)(nil)

func newMemLedgerStore(ledger domain.Ledger) *memLedgerStore {
	if ledger == nil {
		ledger = domain.Ledger{}
	}
	return &memLedgerStore{ledger: ledger}
}

func (s *memLedgerStore) Load(context.Context) (domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return domain.Ledger{}, s.loadErr
	}
	out := make(domain.Ledger, len(s.ledger))
	for id, e := range s.ledger {
		out[id] = e
	}
	return out, nil
}

func (s *memLedgerStore) Save(_ context.Context, ledger domain.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = ledger
	s.saves++
	return nil
}

func (s *memLedgerStore) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = domain.Ledger{}
	return nil
}

// fakeIndex records uploads and deletes. Filenames listed in failUploads
// fail; file ids listed in failDeletes fail. statusSeq maps a file id to
// the sequence of statuses returned by successive Status calls.
type fakeIndex struct {
	mu          sync.Mutex
	nextID      int
	uploads     map[string]string // filename -> assigned file id
	deletes     []string
	failUploads map[string]error
	failDeletes map[string]error
	statusSeq   map[string][]domain.FileStatus
	uploadState domain.FileStatus // initial status of uploads, completed if empty
	counts      *domain.FileCounts
	countsErr   error
}

var _ driven.DocumentIndex = (*fakeIndex)(nil)

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		uploads:     make(map[string]string),
		failUploads: make(map[string]error),
		failDeletes: make(map[string]error),
		statusSeq:   make(map[string][]domain.FileStatus),
	}
}

func (x *fakeIndex) Upload(_ context.Context, filename string, _ []byte) (*domain.RemoteFile, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.failUploads[filename]; err != nil {
		return nil, err
	}
	x.nextID++
	id := fmt.Sprintf("file-%d", x.nextID)
	x.uploads[filename] = id

	status := x.uploadState
	if status == "" {
		status = domain.FileStatusCompleted
	}
	return &domain.RemoteFile{ID: id, Filename: filename, Status: status}, nil
}

func (x *fakeIndex) Status(_ context.Context, fileID string) (*domain.RemoteFile, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	seq := x.statusSeq[fileID]
	if len(seq) == 0 {
		return &domain.RemoteFile{ID: fileID, Status: domain.FileStatusInProgress}, nil
	}
	status := seq[0]
	if len(seq) > 1 {
		x.statusSeq[fileID] = seq[1:]
	}
	return &domain.RemoteFile{ID: fileID, Status: status}, nil
}

func (x *fakeIndex) Delete(_ context.Context, fileID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.failDeletes[fileID]; err != nil {
		return err
	}
	x.deletes = append(x.deletes, fileID)
	return nil
}

func (x *fakeIndex) List(context.Context) ([]domain.RemoteFile, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	var files []domain.RemoteFile
	for filename, id := range x.uploads {
		files = append(files, domain.RemoteFile{ID: id, Filename: filename, Status: domain.FileStatusCompleted})
	}
	return files, nil
}

func (x *fakeIndex) Counts(context.Context) (*domain.FileCounts, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.countsErr != nil {
		return nil, x.countsErr
	}
	if x.counts != nil {
		return x.counts, nil
	}
	return &domain.FileCounts{Total: len(x.uploads), Completed: len(x.uploads)}, nil
}

// uploadCount is the total number of successful uploads, counting
// repeats of the same filename.
func (x *fakeIndex) uploadCount() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.nextID
}

func (x *fakeIndex) deleteCount() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.deletes)
}
