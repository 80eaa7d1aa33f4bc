package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/helpsync-labs/helpsync-cli/internal/core/domain"
	"github.com/helpsync-labs/helpsync-cli/internal/core/ports/driven"
	"github.com/helpsync-labs/helpsync-cli/internal/core/ports/driving"
	"github.com/helpsync-labs/helpsync-cli/internal/logger"
)

// Ensure SyncPipeline implements the interface.
var _ driving.Pipeline = (*SyncPipeline)(nil)

// SyncPipeline orchestrates one run: fetch and normalise all articles,
// diff them against the persisted ledger, push the changes to the remote
// index, and commit the confirmed outcomes.
type SyncPipeline struct {
	connector   driven.ArticleConnector
	normaliser  driven.Normaliser
	docStore    driven.DocumentStore
	ledgerStore driven.LedgerStore
	index       driven.DocumentIndex
	syncer      *Syncer
}

// NewSyncPipeline creates a pipeline over the given components.
func NewSyncPipeline(
	connector driven.ArticleConnector,
	normaliser driven.Normaliser,
	docStore driven.DocumentStore,
	ledgerStore driven.LedgerStore,
	index driven.DocumentIndex,
	syncer *Syncer,
) *SyncPipeline {
	return &SyncPipeline{
		connector:   connector,
		normaliser:  normaliser,
		docStore:    docStore,
		ledgerStore: ledgerStore,
		index:       index,
		syncer:      syncer,
	}
}

// Run executes one full fetch → diff → sync cycle.
//
// A fatal fetch error aborts the run before any ledger mutation, so a
// flaky source can never cause remote deletions. Per-document sync
// failures are isolated: they appear in the summary and leave their
// ledger entries untouched, which makes the next run retry them.
func (p *SyncPipeline) Run(ctx context.Context) (*domain.RunSummary, error) {
	runID := uuid.New().String()
	startedAt := time.Now()
	logger.Info("Run %s starting", runID)

	ledger, err := p.ledgerStore.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrLedgerCorrupt) {
			return nil, fmt.Errorf("load ledger: %w", err)
		}
		// Fail open: an unreadable ledger degrades to a full resync
		// instead of aborting.
		logger.Warn("Ledger unreadable, forcing full resync: %v", err)
		ledger = domain.Ledger{}
	}

	docs, err := p.fetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}

	// A source that suddenly reports nothing while the ledger says
	// documents exist is far more likely an outage than a real mass
	// removal. Refuse to wipe the remote index over it.
	if len(docs) == 0 && len(ledger) > 0 {
		return nil, fmt.Errorf("%w: fetched 0 documents, ledger has %d", domain.ErrEmptySnapshot, len(ledger))
	}

	delta := domain.ComputeDelta(docs, ledger)
	logger.Info("Delta: %d added, %d updated, %d unchanged, %d removed",
		len(delta.Added), len(delta.Updated), len(delta.Unchanged), len(delta.Removed))

	results := p.syncer.Sync(ctx, delta, ledger)

	newLedger := ledger.Apply(delta, results, time.Now())
	if err := p.ledgerStore.Save(ctx, newLedger); err != nil {
		return nil, fmt.Errorf("save ledger: %w", err)
	}

	// Local copies of confirmed-removed documents go last; the ledger
	// commit above is the real record, this is cleanup.
	for _, id := range results.Deleted {
		if err := p.docStore.Delete(ctx, id); err != nil {
			logger.Warn("Could not remove local copy of %s: %v", id, err)
		}
	}

	p.reconcile(ctx, newLedger)

	summary := domain.NewRunSummary(runID, delta, results)
	summary.StartedAt = startedAt
	summary.FinishedAt = time.Now()
	logger.Info("Run %s finished: %d failed", runID, summary.FailedCount)
	return summary, nil
}

// fetchAll drains the connector, normalising and persisting each article
// as it arrives. A document that fails normalisation is skipped with a
// warning; an error on the connector's error channel is fatal.
func (p *SyncPipeline) fetchAll(ctx context.Context) ([]domain.Document, error) {
	articlesCh, errsCh := p.connector.FullSync(ctx)

	var docs []domain.Document
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			if err != nil {
				return nil, err
			}

		case raw, ok := <-articlesCh:
			if !ok {
				return docs, nil
			}

			doc, err := p.normaliser.Normalise(ctx, &raw)
			if err != nil {
				logger.Warn("Skipping article %d: %v", raw.ID, err)
				continue
			}
			if _, err := p.docStore.Save(ctx, doc); err != nil {
				return nil, fmt.Errorf("save document %s: %w", doc.ID, err)
			}
			docs = append(docs, *doc)
			logger.Debug("Fetched %s (%s)", doc.ID, doc.Title)
		}
	}
}

// reconcile compares the remote index's own file count against the
// ledger. Drift means orphaned or missing remote files; it is warned,
// never repaired automatically.
func (p *SyncPipeline) reconcile(ctx context.Context, ledger domain.Ledger) {
	counts, err := p.index.Counts(ctx)
	if err != nil {
		logger.Warn("Could not fetch remote file counts: %v", err)
		return
	}
	if counts.Total != len(ledger) {
		logger.Warn("Remote index has %d files, ledger expects %d", counts.Total, len(ledger))
	}
	if counts.Failed > 0 {
		logger.Warn("Remote index reports %d failed files", counts.Failed)
	}
}
