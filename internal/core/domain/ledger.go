package domain

import "time"

// LedgerEntry records the last successfully synced state of one document.
// An entry exists only after a confirmed remote upload; a failed upload
// never advances its entry, so the next run retries automatically.
type LedgerEntry struct {
	// DocumentID is the stable document identifier.
	DocumentID string `json:"document_id"`

	// ContentHash is the hash of the content as last synced.
	ContentHash string `json:"content_hash"`

	// RemoteFileID is the remote index file handle, if one exists.
	RemoteFileID string `json:"remote_file_id,omitempty"`

	// Title and URL are carried for status display and log context.
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`

	// LastSyncedAt is when the document last reached the remote index.
	LastSyncedAt time.Time `json:"last_synced_at"`
}

// Ledger maps document id to its last synced state. It is the previous
// snapshot that deltas are computed against.
type Ledger map[string]LedgerEntry

// SyncResults holds the per-item outcomes of one sync pass. Only ids
// present here may advance or drop ledger entries.
type SyncResults struct {
	// Uploaded maps document id to the remote file id that reached a
	// terminal completed state.
	Uploaded map[string]string

	// Deleted lists removed ids whose remote delete succeeded
	// (including the idempotent already-absent case).
	Deleted []string

	// Failures lists per-item errors. These ids are absent from
	// Uploaded/Deleted and their ledger entries stay untouched.
	Failures []Failure
}

// NewSyncResults returns an empty results set.
func NewSyncResults() *SyncResults {
	return &SyncResults{Uploaded: make(map[string]string)}
}

// Apply returns a new ledger with the sync results committed: uploaded
// documents get fresh entries, deleted ids are dropped, everything else
// is carried over unchanged. The receiver is not modified.
func (l Ledger) Apply(delta *Delta, results *SyncResults, now time.Time) Ledger {
	next := make(Ledger, len(l)+len(delta.Added))
	for id, entry := range l {
		next[id] = entry
	}

	for _, doc := range delta.Documents() {
		fileID, ok := results.Uploaded[doc.ID]
		if !ok {
			continue
		}
		next[doc.ID] = LedgerEntry{
			DocumentID:   doc.ID,
			ContentHash:  doc.ContentHash,
			RemoteFileID: fileID,
			Title:        doc.Title,
			URL:          doc.URL,
			LastSyncedAt: now,
		}
	}

	for _, id := range results.Deleted {
		delete(next, id)
	}

	return next
}
