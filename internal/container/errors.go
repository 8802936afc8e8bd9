package container

import "errors"

var (
	// ErrNotFound is returned by Get/Delete/Remove when the requested key
	// or index is absent.
	ErrNotFound = errors.New("container: not found")

	// ErrCorrupted is returned when an offset recorded in the container's
	// table no longer agrees with the blob it is supposed to describe. It
	// should never happen from pure in-memory mutation; it signals that
	// something outside the container's own API rewrote the blob.
	ErrCorrupted = errors.New("container: offset inconsistent with blob")
)
