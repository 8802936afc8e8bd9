package errors

// baseError is the one error type every outcome the engine reports
// (NotFoundError, CorruptedError, LifecycleError, and the plain io-error
// wrapper) embeds. It carries an optional cause, a message, a code a
// caller can switch on without string-matching, and a details map for the
// handful of fields the store actually needs attached to a failure: which
// key, which timestamped key, which segment, which invariant.
type baseError struct {
	cause   error
	message string
	code    ErrorCode
	details map[string]any
}

// NewBaseError wraps err (nil for a freshly-originated failure) under msg
// and code.
func NewBaseError(err error, code ErrorCode, msg string) *baseError {
	return &baseError{cause: err, code: code, message: msg}
}

// WithMessage replaces the error's message.
func (be *baseError) WithMessage(msg string) *baseError {
	be.message = msg
	return be
}

// WithCode replaces the error's code.
func (be *baseError) WithCode(code ErrorCode) *baseError {
	be.code = code
	return be
}

// WithDetail attaches one piece of diagnostic context (the user key, the
// timestamped key, the segment base name, the violated invariant) to the
// error. The details map is lazily initialized so a WithDetail-free error
// allocates nothing beyond the struct itself.
func (be *baseError) WithDetail(key string, value any) *baseError {
	if be.details == nil {
		be.details = make(map[string]any)
	}
	be.details[key] = value
	return be
}

// WithKey is WithDetail("key", key) — the detail every outcome keyed on a
// user key (NotFoundError, most CorruptedError cases) attaches.
func (be *baseError) WithKey(key string) *baseError {
	return be.WithDetail("key", key)
}

// WithSegment is WithDetail("segment", base) — attaches the base name of
// the data segment a failure happened against, for corruption and I/O
// outcomes that originate from a specific `<nanos>.cky`/`<nanos>.log` file
// rather than from the memtable or index.
func (be *baseError) WithSegment(base string) *baseError {
	return be.WithDetail("segment", base)
}

// Error implements the error interface.
func (b *baseError) Error() string {
	return b.message
}

// Unwrap exposes the wrapped cause, so errors.Is/errors.As see through a
// baseError to whatever filesystem or container error actually triggered
// it.
func (b *baseError) Unwrap() error {
	return b.cause
}

// Code returns the error's code, for callers that want to switch on
// failure kind without a type assertion.
func (b *baseError) Code() ErrorCode {
	return b.code
}

// Details returns the error's attached diagnostic context. The returned
// map is the error's own — callers should treat it as read-only.
func (b *baseError) Details() map[string]any {
	return b.details
}
