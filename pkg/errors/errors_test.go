package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotFound(t *testing.T) {
	err := NewNotFound("hey")
	require.True(t, IsNotFound(err))
	require.Equal(t, CodeNotFound, Code(err))
	require.False(t, IsCorrupted(err))
	require.Equal(t, "hey", err.Details()["key"])
}

func TestCorruptedSegment(t *testing.T) {
	cause := errors.New("boom")
	err := NewCorruptedSegment(cause, "1655375120328185000", "failed to read segment")
	require.True(t, IsCorrupted(err))
	require.ErrorIs(t, err, cause)

	ce, ok := AsCorrupted(err)
	require.True(t, ok)
	require.Equal(t, "segment-directory", ce.Invariant)
	require.Equal(t, "1655375120328185000", ce.Details()["segment"])
}

func TestCorrupted(t *testing.T) {
	cause := errors.New("boom")
	err := NewCorrupted(cause, "memtable", "offset mismatch")
	require.True(t, IsCorrupted(err))
	require.ErrorIs(t, err, cause)

	ce, ok := AsCorrupted(err)
	require.True(t, ok)
	require.Equal(t, "memtable", ce.Invariant)
}

func TestLifecycle(t *testing.T) {
	running := NewAlreadyRunning("compactor")
	require.True(t, IsLifecycle(running))
	require.Equal(t, CodeAlreadyRunning, Code(running))

	notRunning := NewNotRunning("compactor")
	require.Equal(t, CodeNotRunning, Code(notRunning))
}

func TestIOError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewIOError(cause, "failed to create directory")
	require.Equal(t, CodeIO, Code(err))
	require.ErrorIs(t, err, cause)
}
