package errors

// NotFoundError marks a key absent from the index.
type NotFoundError struct {
	*baseError
	Key string
}

// NewNotFound builds a NotFoundError for key.
func NewNotFound(key string) *NotFoundError {
	return &NotFoundError{
		baseError: NewBaseError(nil, CodeNotFound, "key not found").WithKey(key),
		Key:       key,
	}
}

// CorruptedError marks an on-disk or in-memory state invariant violation
// detected by the store (an offset outside its container's blob, an
// indexed key missing from the segment it should live in, and similar
// internal-consistency failures). Invariant names which consistency rule
// is believed violated (e.g. "memtable", "segment-directory"); Details()
// carries whatever diagnostic context is available (the key, the TK, the
// segment involved).
type CorruptedError struct {
	*baseError
	Invariant string
}

// NewCorrupted builds a CorruptedError wrapping cause, tagged with the
// violated invariant.
func NewCorrupted(cause error, invariant, msg string) *CorruptedError {
	return &CorruptedError{
		baseError: NewBaseError(cause, CodeCorrupted, msg).WithDetail("invariant", invariant),
		Invariant: invariant,
	}
}

// NewCorruptedSegment is NewCorrupted with the failing segment's base name
// attached as a detail — the shape internal/store reaches for whenever a
// corruption traces back to one specific data segment rather than the
// memtable or index.
func NewCorruptedSegment(cause error, base, msg string) *CorruptedError {
	ce := NewCorrupted(cause, "segment-directory", msg)
	ce.baseError.WithSegment(base)
	return ce
}

// LifecycleError marks compactor lifecycle misuse: starting an
// already-running compactor, or stopping one that isn't running.
type LifecycleError struct {
	*baseError
	Component string
}

// NewAlreadyRunning builds a LifecycleError for a start attempt on a
// running component.
func NewAlreadyRunning(component string) *LifecycleError {
	return &LifecycleError{
		baseError: NewBaseError(nil, CodeAlreadyRunning, component+" is already running"),
		Component: component,
	}
}

// NewNotRunning builds a LifecycleError for a stop attempt on a component
// that isn't running.
func NewNotRunning(component string) *LifecycleError {
	return &LifecycleError{
		baseError: NewBaseError(nil, CodeNotRunning, component+" is not running"),
		Component: component,
	}
}

// NewIOError wraps a raw filesystem/runtime error as an io-error outcome,
// for the operations (Open/Close/Clear) that are allowed to surface it
// directly instead of downgrading to Corrupted.
func NewIOError(cause error, msg string) error {
	return NewBaseError(cause, CodeIO, msg)
}
