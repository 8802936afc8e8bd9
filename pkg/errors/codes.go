package errors

// ErrorCode standardizes the outcomes the engine can surface: not-found,
// corrupted, compactor lifecycle misuse, and io-error (the last only
// ever surfaced by Open/Close/Clear — Set, Get and Delete downgrade any
// I/O failure to Corrupted).
type ErrorCode string

const (
	// CodeNotFound marks a key absent from the index. User-visible,
	// recoverable.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeCorrupted marks an internal-consistency violation, typically
	// because on-disk state diverged from in-memory state.
	CodeCorrupted ErrorCode = "CORRUPTED"

	// CodeAlreadyRunning marks an attempt to start a compactor that is
	// already running.
	CodeAlreadyRunning ErrorCode = "ALREADY_RUNNING"

	// CodeNotRunning marks an attempt to stop a compactor that isn't
	// running.
	CodeNotRunning ErrorCode = "NOT_RUNNING"

	// CodeIO marks a pass-through host filesystem failure.
	CodeIO ErrorCode = "IO_ERROR"
)
