package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/iamNilotpal/ckydb/internal/constants"
	pkgerrors "github.com/iamNilotpal/ckydb/pkg/errors"
	"github.com/iamNilotpal/ckydb/pkg/metrics"
	"github.com/iamNilotpal/ckydb/pkg/options"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T, maxSegmentKB float64) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	opts := &options.Options{DBPath: dir, MaxSegmentKB: maxSegmentKB, VacuumIntervalSec: 3600}
	s, err := Load(opts, zap.NewNop().Sugar(), metrics.New(nil))
	require.NoError(t, err)
	return s, dir
}

func TestStore_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t, constants.DefaultMaxSegmentKB)

	require.NoError(t, s.Set("hey", "English"))
	v, err := s.Get("hey")
	require.NoError(t, err)
	require.Equal(t, "English", v)

	require.NoError(t, s.Set("hey", "still English"))
	v, err = s.Get("hey")
	require.NoError(t, err)
	require.Equal(t, "still English", v)
}

func TestStore_Scenario1_LogFileContainsExactToken(t *testing.T) {
	s, dir := newTestStore(t, constants.DefaultMaxSegmentKB)

	require.NoError(t, s.Set("hey", "English"))
	v, err := s.Get("hey")
	require.NoError(t, err)
	require.Equal(t, "English", v)

	tk, ok := s.idx.Lookup("hey")
	require.True(t, ok)

	raw, err := os.ReadFile(filepath.Join(dir, s.dir.ActiveLog+constants.LogFileExt))
	require.NoError(t, err)
	require.Equal(t, tk+constants.KVSep+"English"+constants.TokSep, string(raw))
}

func TestStore_Scenario2_RollsAfterFourthInsert(t *testing.T) {
	// Picked so the cumulative token size crosses the threshold right
	// after the fourth insert and doesn't reach it again over the
	// remaining three, matching the scenario's "rolls after the fourth"
	// and "exactly one .cky file" expectations.
	s, _ := newTestStore(t, 0.15)

	records := []struct{ key, value string }{
		{"hey", "English"},
		{"hi", "English"},
		{"salut", "French"},
		{"bonjour", "French"},
		{"hola", "Spanish"},
		{"oi", "Portuguese"},
		{"mulimuta", "Runyoro"},
	}
	for _, r := range records {
		require.NoError(t, s.Set(r.key, r.value))
	}
	for _, r := range records {
		v, err := s.Get(r.key)
		require.NoError(t, err)
		require.Equal(t, r.value, v)
	}

	require.Len(t, s.dir.DataFiles, 1)
}

func TestStore_Scenario3_DeleteThenCompact(t *testing.T) {
	s, _ := newTestStore(t, constants.DefaultMaxSegmentKB)

	require.NoError(t, s.Set("hey", "English"))
	require.NoError(t, s.Set("salut", "French"))

	salutTK, ok := s.idx.Lookup("salut")
	require.True(t, ok)

	require.NoError(t, s.Delete("salut"))

	raw, err := os.ReadFile(s.dir.DeleteFilePath())
	require.NoError(t, err)
	require.Equal(t, salutTK+constants.TokSep, string(raw))

	_, ok = s.idx.Lookup("salut")
	require.False(t, ok)

	_, err = s.Get("salut")
	require.Error(t, err)

	require.NoError(t, s.Vacuum())

	raw, err = os.ReadFile(s.dir.DeleteFilePath())
	require.NoError(t, err)
	require.Empty(t, raw)

	logRaw, err := os.ReadFile(s.dir.LogFilePath())
	require.NoError(t, err)
	require.NotContains(t, string(logRaw), "salut")

	v, err := s.Get("hey")
	require.NoError(t, err)
	require.Equal(t, "English", v)
}

func TestStore_Scenario4And5_SeededSegmentServedFromCache(t *testing.T) {
	dir := t.TempDir()

	dataBase := "1655375120328185000"
	logBase := "1655375120328186000"

	content := dataBase + "000-cow" + constants.KVSep + "500 months" + constants.TokSep +
		dataBase + "001-dog" + constants.KVSep + "23 months" + constants.TokSep

	// Index maps each user key straight to its TK inside the seed segment.
	idxContent := "cow" + constants.KVSep + dataBase + "000-cow" + constants.TokSep +
		"dog" + constants.KVSep + dataBase + "001-dog" + constants.TokSep

	require.NoError(t, os.WriteFile(filepath.Join(dir, dataBase+constants.DataFileExt), []byte(content), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, logBase+constants.LogFileExt), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.IndexFileName), []byte(idxContent), 0644))

	opts := &options.Options{DBPath: dir, MaxSegmentKB: constants.DefaultMaxSegmentKB, VacuumIntervalSec: 3600}
	s, err := Load(opts, zap.NewNop().Sugar(), metrics.New(nil))
	require.NoError(t, err)

	v, err := s.Get("cow")
	require.NoError(t, err)
	require.Equal(t, "500 months", v)

	start, end := s.cache.Bounds()
	require.Equal(t, dataBase, start)
	require.Equal(t, logBase, end)

	// Scenario 5: delete the backing file from disk; the already-cached
	// page still answers Get.
	require.NoError(t, os.Remove(filepath.Join(dir, dataBase+constants.DataFileExt)))
	v, err = s.Get("cow")
	require.NoError(t, err)
	require.Equal(t, "500 months", v)
}

func TestStore_Scenario6_SetIntoCachedSegmentRewritesDataFile(t *testing.T) {
	dir := t.TempDir()

	dataBase := "1655375120328185000"
	logBase := "1655375120328186000"

	content := dataBase + "000-cow" + constants.KVSep + "500 months" + constants.TokSep +
		dataBase + "001-dog" + constants.KVSep + "23 months" + constants.TokSep

	idxContent := "cow" + constants.KVSep + dataBase + "000-cow" + constants.TokSep +
		"dog" + constants.KVSep + dataBase + "001-dog" + constants.TokSep

	dataPath := filepath.Join(dir, dataBase+constants.DataFileExt)
	require.NoError(t, os.WriteFile(dataPath, []byte(content), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, logBase+constants.LogFileExt), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.IndexFileName), []byte(idxContent), 0644))

	opts := &options.Options{DBPath: dir, MaxSegmentKB: constants.DefaultMaxSegmentKB, VacuumIntervalSec: 3600}
	s, err := Load(opts, zap.NewNop().Sugar(), metrics.New(nil))
	require.NoError(t, err)

	require.NoError(t, s.Set("cow", "foo-again"))

	v, err := s.Get("cow")
	require.NoError(t, err)
	require.Equal(t, "foo-again", v)

	raw, err := os.ReadFile(dataPath)
	require.NoError(t, err)
	require.Contains(t, string(raw), "foo-again")
	require.NotContains(t, string(raw), "500 months")

	v, err = s.Get("dog")
	require.NoError(t, err)
	require.Equal(t, "23 months", v)
}

func TestStore_Delete_NotFound(t *testing.T) {
	s, _ := newTestStore(t, constants.DefaultMaxSegmentKB)
	err := s.Delete("nope")
	require.Error(t, err)
}

func TestStore_Set_RejectsReservedSeparatorsInKeyAndValue(t *testing.T) {
	s, _ := newTestStore(t, constants.DefaultMaxSegmentKB)

	err := s.Set("bad"+constants.KVSep+"key", "value")
	require.Error(t, err)
	require.True(t, pkgerrors.IsCorrupted(err))

	err = s.Set("key", "bad"+constants.TokSep+"value")
	require.Error(t, err)
	require.True(t, pkgerrors.IsCorrupted(err))

	_, err = s.Get("bad" + constants.KVSep + "key")
	require.Error(t, err, "a rejected Set must not have touched the index")
}

func TestStore_RestartRecovery(t *testing.T) {
	dir := t.TempDir()
	opts := &options.Options{DBPath: dir, MaxSegmentKB: constants.DefaultMaxSegmentKB, VacuumIntervalSec: 3600}

	s1, err := Load(opts, zap.NewNop().Sugar(), metrics.New(nil))
	require.NoError(t, err)
	require.NoError(t, s1.Set("a", "1"))
	require.NoError(t, s1.Set("b", "2"))
	require.NoError(t, s1.Delete("a"))

	s2, err := Load(opts, zap.NewNop().Sugar(), metrics.New(nil))
	require.NoError(t, err)

	_, err = s2.Get("a")
	require.Error(t, err)
	v, err := s2.Get("b")
	require.NoError(t, err)
	require.Equal(t, "2", v)
}

func TestStore_Clear(t *testing.T) {
	s, _ := newTestStore(t, constants.DefaultMaxSegmentKB)

	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Clear())

	_, err := s.Get("a")
	require.Error(t, err)

	require.NoError(t, s.Set("b", "2"))
	v, err := s.Get("b")
	require.NoError(t, err)
	require.Equal(t, "2", v)
}

func TestStore_SegmentRollKeepsValuesReadable(t *testing.T) {
	s, _ := newTestStore(t, 0.001)

	n := 20
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("key-%02d", i)
		val := strconv.Itoa(i)
		require.NoError(t, s.Set(key, val))
	}
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("key-%02d", i)
		v, err := s.Get(key)
		require.NoError(t, err)
		require.Equal(t, strconv.Itoa(i), v)
	}
	require.GreaterOrEqual(t, len(s.dir.DataFiles), 1)
}
