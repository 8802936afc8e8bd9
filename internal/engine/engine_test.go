package engine

import (
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/ckydb/pkg/metrics"
	"github.com/iamNilotpal/ckydb/pkg/options"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	opts := &options.Options{DBPath: dir, MaxSegmentKB: 4096, VacuumIntervalSec: 3600}
	e, err := New(&Config{Options: opts, Logger: zap.NewNop().Sugar(), Metrics: metrics.New(nil)})
	require.NoError(t, err)
	return e
}

func TestEngine_SetGetDelete(t *testing.T) {
	e := newTestEngine(t)
	defer e.Close()

	require.NoError(t, e.Set("a", "1"))
	v, err := e.Get("a")
	require.NoError(t, err)
	require.Equal(t, "1", v)

	require.NoError(t, e.Delete("a"))
	_, err = e.Get("a")
	require.Error(t, err)
}

func TestEngine_CloseIsIdempotentlyRejectedTwice(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Close())
	require.ErrorIs(t, e.Close(), ErrEngineClosed)
}

func TestEngine_OperationsFailAfterClose(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Close())

	err := e.Set("a", "1")
	require.ErrorIs(t, err, ErrEngineClosed)

	_, err = e.Get("a")
	require.ErrorIs(t, err, ErrEngineClosed)

	err = e.Delete("a")
	require.ErrorIs(t, err, ErrEngineClosed)

	err = e.Clear()
	require.ErrorIs(t, err, ErrEngineClosed)
}

func TestEngine_RestartRecovery(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	opts := &options.Options{DBPath: dir, MaxSegmentKB: 4096, VacuumIntervalSec: 3600}

	e1, err := New(&Config{Options: opts, Logger: zap.NewNop().Sugar(), Metrics: metrics.New(nil)})
	require.NoError(t, err)
	require.NoError(t, e1.Set("a", "1"))
	require.NoError(t, e1.Close())

	e2, err := New(&Config{Options: opts, Logger: zap.NewNop().Sugar(), Metrics: metrics.New(nil)})
	require.NoError(t, err)
	defer e2.Close()

	v, err := e2.Get("a")
	require.NoError(t, err)
	require.Equal(t, "1", v)
}
