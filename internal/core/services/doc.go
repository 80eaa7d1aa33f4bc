// Package services contains the core pipeline logic: computing the
// delta between fetched documents and the persisted ledger, pushing the
// changes to the remote index, and committing confirmed outcomes back to
// the ledger.
package services
