// Package errors implements the engine's structured error taxonomy:
// a baseError carrying a code, a wrapped cause and a details map, plus
// four domain-specific outcomes (NotFoundError, CorruptedError,
// LifecycleError, and a plain io-error wrapper) built on top of it.
package errors

import stdErrors "errors"

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return stdErrors.As(err, &nfe)
}

// IsCorrupted reports whether err is, or wraps, a CorruptedError.
func IsCorrupted(err error) bool {
	var ce *CorruptedError
	return stdErrors.As(err, &ce)
}

// IsLifecycle reports whether err is, or wraps, a LifecycleError
// (already-running / not-running compactor misuse).
func IsLifecycle(err error) bool {
	var le *LifecycleError
	return stdErrors.As(err, &le)
}

// AsCorrupted extracts a CorruptedError from err's chain, if present.
func AsCorrupted(err error) (*CorruptedError, bool) {
	var ce *CorruptedError
	if stdErrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// Code extracts the ErrorCode from any error produced by this package,
// or CodeIO for a plain, unwrapped error (the common case for raw
// filesystem failures that haven't been classified yet).
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var coded interface{ Code() ErrorCode }
	if stdErrors.As(err, &coded) {
		return coded.Code()
	}
	return CodeIO
}
