package domain

// FileStatus is the remote index's processing state for an uploaded file.
type FileStatus string

const (
	// FileStatusInProgress means the remote index is still processing.
	FileStatusInProgress FileStatus = "in_progress"

	// FileStatusCompleted means the file is fully indexed.
	FileStatusCompleted FileStatus = "completed"

	// FileStatusFailed means remote processing failed.
	FileStatusFailed FileStatus = "failed"

	// FileStatusCancelled means remote processing was cancelled.
	FileStatusCancelled FileStatus = "cancelled"
)

// Terminal reports whether no further state transition can occur.
func (s FileStatus) Terminal() bool {
	return s == FileStatusCompleted || s == FileStatusFailed || s == FileStatusCancelled
}

// RemoteFile is a file handle in the remote index.
type RemoteFile struct {
	// ID is the remote file identifier.
	ID string

	// Filename is the name the file was uploaded under.
	Filename string

	// Status is the current processing state.
	Status FileStatus

	// StatusDetail carries the remote error message when Status is
	// failed, empty otherwise.
	StatusDetail string
}

// FileCounts are the remote index's own per-status file totals, used to
// reconcile against local expectations.
type FileCounts struct {
	Total      int
	Completed  int
	InProgress int
	Failed     int
}
