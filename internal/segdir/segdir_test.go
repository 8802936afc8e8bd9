package segdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscover_CreatesLogWhenEmpty(t *testing.T) {
	dir := t.TempDir()

	d, err := Discover(dir)
	require.NoError(t, err)
	require.NotEmpty(t, d.ActiveLog)
	require.Empty(t, d.DataFiles)

	_, err = os.Stat(d.LogFilePath())
	require.NoError(t, err)
}

func TestDiscover_PartitionsByExtension(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "100.cky"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "200.cky"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "300.log"), nil, 0644))

	d, err := Discover(dir)
	require.NoError(t, err)

	require.Equal(t, []string{"100", "200"}, d.DataFiles)
	require.Equal(t, "300", d.ActiveLog)
}

func TestDirectory_RollActive(t *testing.T) {
	d := &Directory{DBPath: "/tmp/db", ActiveLog: "500"}
	d.RollActive("600")

	require.Equal(t, []string{"500"}, d.DataFiles)
	require.Equal(t, "600", d.ActiveLog)
}

func TestDirectory_LocateSegmentFor(t *testing.T) {
	d := &Directory{DataFiles: []string{"100", "200", "300"}, ActiveLog: "400"}

	base, next, ok := d.LocateSegmentFor("250-key")
	require.True(t, ok)
	require.Equal(t, "200", base)
	require.Equal(t, "300", next)

	base, next, ok = d.LocateSegmentFor("350-key")
	require.True(t, ok)
	require.Equal(t, "300", base)
	require.Equal(t, "400", next)

	_, _, ok = d.LocateSegmentFor("050-key")
	require.False(t, ok)
}
