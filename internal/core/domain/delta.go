package domain

import "sort"

// Delta is the computed difference between the current document snapshot
// and the previous ledger state. It is derived per run, never persisted.
type Delta struct {
	// Added are documents with no ledger entry.
	Added []Document

	// Updated are documents whose content hash differs from the ledger.
	Updated []Document

	// Unchanged are ids whose hash matches the ledger. These are never
	// re-uploaded.
	Unchanged []string

	// Removed are ids present in the ledger but absent from the
	// current snapshot.
	Removed []string
}

// ComputeDelta classifies the current snapshot against the previous
// ledger. It is a pure function over the two id→hash mappings:
// absent from ledger → added; present with a different hash → updated;
// present with the same hash → unchanged; in the ledger but not in the
// snapshot → removed.
func ComputeDelta(current []Document, previous Ledger) *Delta {
	delta := &Delta{}
	seen := make(map[string]bool, len(current))

	for _, doc := range current {
		seen[doc.ID] = true
		entry, known := previous[doc.ID]
		switch {
		case !known:
			delta.Added = append(delta.Added, doc)
		case entry.ContentHash != doc.ContentHash:
			delta.Updated = append(delta.Updated, doc)
		default:
			delta.Unchanged = append(delta.Unchanged, doc.ID)
		}
	}

	for id := range previous {
		if !seen[id] {
			delta.Removed = append(delta.Removed, id)
		}
	}
	sort.Strings(delta.Removed)

	return delta
}

// Documents returns the added and updated documents, the set that needs
// uploading.
func (d *Delta) Documents() []Document {
	docs := make([]Document, 0, len(d.Added)+len(d.Updated))
	docs = append(docs, d.Added...)
	docs = append(docs, d.Updated...)
	return docs
}

// Empty reports whether the delta requires no remote work.
func (d *Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Updated) == 0 && len(d.Removed) == 0
}
