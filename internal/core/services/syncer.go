package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/helpsync-labs/helpsync-cli/internal/core/domain"
	"github.com/helpsync-labs/helpsync-cli/internal/core/ports/driven"
	"github.com/helpsync-labs/helpsync-cli/internal/logger"
)

// Default syncer tuning values.
const (
	DefaultWorkers      = 4
	DefaultPollInterval = 500 * time.Millisecond
	DefaultPollTimeout  = 2 * time.Minute

	// maxPollInterval caps the status poll backoff.
	maxPollInterval = 5 * time.Second
)

// SyncerConfig tunes the upload worker pool and status polling.
type SyncerConfig struct {
	// Workers is the number of concurrent uploads (default: 4).
	Workers int

	// PollInterval is the initial delay between status polls, doubling
	// up to a cap (default: 500ms).
	PollInterval time.Duration

	// PollTimeout bounds how long one upload may stay non-terminal
	// before it is recorded as failed (default: 2m).
	PollTimeout time.Duration
}

func (c SyncerConfig) withDefaults() SyncerConfig {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = DefaultPollTimeout
	}
	return c
}

// Syncer pushes a computed delta to the remote index. Uploads run on a
// bounded worker pool; each one is polled until the remote index reports
// a terminal state. Failures are isolated per document and never abort
// the pass.
type Syncer struct {
	index driven.DocumentIndex
	cfg   SyncerConfig
}

// NewSyncer creates a syncer over the given index.
func NewSyncer(index driven.DocumentIndex, cfg SyncerConfig) *Syncer {
	return &Syncer{index: index, cfg: cfg.withDefaults()}
}

// Sync uploads the delta's added and updated documents and deletes the
// removed ones. The previous ledger supplies the remote file ids of
// superseded and removed documents. Only confirmed outcomes appear in
// the results; everything else lands in Failures.
func (s *Syncer) Sync(ctx context.Context, delta *domain.Delta, previous domain.Ledger) *domain.SyncResults {
	results := domain.NewSyncResults()
	if delta.Empty() {
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan domain.Document)

	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range jobs {
				fileID, err := s.uploadOne(ctx, doc)

				mu.Lock()
				if err != nil {
					results.Failures = append(results.Failures, domain.Failure{
						DocumentID: doc.ID,
						Op:         "upload",
						Reason:     err.Error(),
					})
					mu.Unlock()
					logger.Warn("Upload failed for %s: %v", doc.ID, err)
					continue
				}
				results.Uploaded[doc.ID] = fileID
				mu.Unlock()

				// An updated document leaves a superseded remote file
				// behind. Removing it is best effort; a leftover is
				// caught by the counts reconciliation, not by failing
				// the document.
				if prev, ok := previous[doc.ID]; ok && prev.RemoteFileID != "" && prev.RemoteFileID != fileID {
					if err := s.index.Delete(ctx, prev.RemoteFileID); err != nil {
						logger.Warn("Could not remove superseded remote file %s for %s: %v", prev.RemoteFileID, doc.ID, err)
					}
				}
			}
		}()
	}

	for _, doc := range delta.Documents() {
		select {
		case jobs <- doc:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	s.deleteRemoved(ctx, delta.Removed, previous, results)
	return results
}

// uploadOne uploads a document and waits for the remote index to settle.
func (s *Syncer) uploadOne(ctx context.Context, doc domain.Document) (string, error) {
	rf, err := s.index.Upload(ctx, doc.Filename(), []byte(doc.Content))
	if err != nil {
		return "", err
	}

	rf, err = s.awaitTerminal(ctx, rf)
	if err != nil {
		return "", err
	}
	if rf.Status != domain.FileStatusCompleted {
		if rf.StatusDetail != "" {
			return "", fmt.Errorf("%w: %s: %s", domain.ErrProcessingFailed, rf.Status, rf.StatusDetail)
		}
		return "", fmt.Errorf("%w: %s", domain.ErrProcessingFailed, rf.Status)
	}
	return rf.ID, nil
}

// awaitTerminal polls the remote status with doubling backoff until a
// terminal state or the poll timeout.
func (s *Syncer) awaitTerminal(ctx context.Context, rf *domain.RemoteFile) (*domain.RemoteFile, error) {
	if rf.Status.Terminal() {
		return rf, nil
	}

	deadline := time.Now().Add(s.cfg.PollTimeout)
	interval := s.cfg.PollInterval

	for {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w after %s", domain.ErrProcessingTimeout, s.cfg.PollTimeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
		if interval < maxPollInterval {
			interval *= 2
		}

		polled, err := s.index.Status(ctx, rf.ID)
		if err != nil {
			return nil, fmt.Errorf("poll status: %w", err)
		}
		if polled.Status.Terminal() {
			return polled, nil
		}
	}
}

// deleteRemoved deletes the remote files of removed documents. An id
// with no remote file counts as deleted immediately; a failed delete
// keeps the ledger entry so the next run retries.
func (s *Syncer) deleteRemoved(ctx context.Context, removed []string, previous domain.Ledger, results *domain.SyncResults) {
	for _, id := range removed {
		entry, ok := previous[id]
		if !ok || entry.RemoteFileID == "" {
			results.Deleted = append(results.Deleted, id)
			continue
		}

		if err := s.index.Delete(ctx, entry.RemoteFileID); err != nil {
			results.Failures = append(results.Failures, domain.Failure{
				DocumentID: id,
				Op:         "delete",
				Reason:     err.Error(),
			})
			logger.Warn("Delete failed for %s (remote %s): %v", id, entry.RemoteFileID, err)
			continue
		}
		results.Deleted = append(results.Deleted, id)
	}
}
