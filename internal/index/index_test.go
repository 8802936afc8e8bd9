package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/ckydb/internal/constants"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestIndex(t *testing.T) (*Index, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.idx")
	idx, err := Load(path, zap.NewNop().Sugar())
	require.NoError(t, err)
	return idx, path
}

func TestIndex_InsertNewAndLookup(t *testing.T) {
	idx, _ := newTestIndex(t)

	require.NoError(t, idx.InsertNew("hey", "100-hey"))
	tk, ok := idx.Lookup("hey")
	require.True(t, ok)
	require.Equal(t, "100-hey", tk)
}

func TestIndex_InsertNewAppendsWithoutRewrite(t *testing.T) {
	idx, path := newTestIndex(t)

	require.NoError(t, idx.InsertNew("a", "1-a"))
	require.NoError(t, idx.InsertNew("b", "2-b"))

	reloaded, err := Load(path, zap.NewNop().Sugar())
	require.NoError(t, err)

	tk, ok := reloaded.Lookup("a")
	require.True(t, ok)
	require.Equal(t, "1-a", tk)

	tk, ok = reloaded.Lookup("b")
	require.True(t, ok)
	require.Equal(t, "2-b", tk)
}

func TestIndex_InsertNewRejectsDuplicate(t *testing.T) {
	idx, _ := newTestIndex(t)
	require.NoError(t, idx.InsertNew("hey", "100-hey"))

	err := idx.InsertNew("hey", "200-hey")
	require.ErrorIs(t, err, ErrAlreadyIndexed)
}

func TestIndex_Delete(t *testing.T) {
	idx, path := newTestIndex(t)
	require.NoError(t, idx.InsertNew("a", "1-a"))
	require.NoError(t, idx.InsertNew("b", "2-b"))

	require.NoError(t, idx.Delete("a"))

	_, ok := idx.Lookup("a")
	require.False(t, ok)

	reloaded, err := Load(path, zap.NewNop().Sugar())
	require.NoError(t, err)
	_, ok = reloaded.Lookup("a")
	require.False(t, ok)
	_, ok = reloaded.Lookup("b")
	require.True(t, ok)
}

func TestIndex_RollbackInsert(t *testing.T) {
	idx, _ := newTestIndex(t)
	require.NoError(t, idx.InsertNew("a", "1-a"))

	require.NoError(t, idx.RollbackInsert("a"))

	_, ok := idx.Lookup("a")
	require.False(t, ok)
}

func TestIndex_LoadToleratesMalformedTrailingToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.idx")
	content := "a" + constants.KVSep + "1-a" + constants.TokSep + "torn-tail-with-no-sep"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	idx, err := Load(path, zap.NewNop().Sugar())
	require.NoError(t, err)

	tk, ok := idx.Lookup("a")
	require.True(t, ok)
	require.Equal(t, "1-a", tk)
	require.Equal(t, 1, idx.Len())
}

func TestIndex_Clear(t *testing.T) {
	idx, path := newTestIndex(t)
	require.NoError(t, idx.InsertNew("a", "1-a"))
	require.NoError(t, idx.Clear())

	require.Equal(t, 0, idx.Len())

	reloaded, err := Load(path, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.Equal(t, 0, reloaded.Len())
}
