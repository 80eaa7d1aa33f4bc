package domain

import "errors"

// Domain errors represent pipeline failures with distinct handling.
// Infrastructure errors are wrapped around these sentinels.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrFetch indicates the source listing could not be fetched after
	// retries. Fatal to the run; the ledger is never touched.
	ErrFetch = errors.New("fetch failed")

	// ErrEmptySnapshot indicates the fetch returned zero documents while
	// the ledger is non-empty. Treated as fatal rather than mass removal.
	ErrEmptySnapshot = errors.New("empty snapshot with non-empty ledger")

	// ErrLedgerCorrupt indicates the ledger file is torn or unreadable.
	// Recovered by fail-open: the caller proceeds with an empty ledger,
	// forcing a full resync.
	ErrLedgerCorrupt = errors.New("ledger corrupt")

	// ErrProcessingFailed indicates the remote index reported a terminal
	// failed state for an uploaded file.
	ErrProcessingFailed = errors.New("remote processing failed")

	// ErrProcessingTimeout indicates the remote index did not reach a
	// terminal state within the poll timeout.
	ErrProcessingTimeout = errors.New("remote processing timed out")

	// ErrDeleteConflict indicates the remote index refused a delete with
	// a distinguishable conflict. Surfaced per item, retried next run.
	ErrDeleteConflict = errors.New("remote delete conflict")
)
