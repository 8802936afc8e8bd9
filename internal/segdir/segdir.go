// Package segdir discovers and names the files that make up one engine
// instance's on-disk state: the ordered list of immutable data segments,
// the single active log segment, and the fixed auxiliary index/tombstone
// paths. The glob-and-sort discovery and generate/parse naming follow the
// usual segmented-log layout, narrowed down to bare nanosecond segment
// names rather than a configurable prefixed scheme, plus a bootstrap
// branch deciding whether to keep writing to what's on disk or start
// fresh.
package segdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/iamNilotpal/ckydb/internal/constants"
)

// Directory is the ordered view of one database directory's segment
// files: which base names are immutable (.cky), which single base name
// is the active, writable log (.log), and the derived paths for the
// index and tombstone files.
type Directory struct {
	DBPath    string
	DataFiles []string // sorted, base names only (no extension)
	ActiveLog string    // base name only (no extension)
}

// IndexFilePath returns the full path of the index file.
func (d *Directory) IndexFilePath() string {
	return filepath.Join(d.DBPath, constants.IndexFileName)
}

// DeleteFilePath returns the full path of the tombstone file.
func (d *Directory) DeleteFilePath() string {
	return filepath.Join(d.DBPath, constants.DeleteFileName)
}

// LogFilePath returns the full path of the currently active log segment.
func (d *Directory) LogFilePath() string {
	return filepath.Join(d.DBPath, d.ActiveLog+constants.LogFileExt)
}

// DataFilePath returns the full path of the immutable segment named base.
func (d *Directory) DataFilePath(base string) string {
	return filepath.Join(d.DBPath, base+constants.DataFileExt)
}

// LogFilePathFor returns the full path of the .log file named base,
// regardless of whether base is the currently active log.
func (d *Directory) LogFilePathFor(base string) string {
	return filepath.Join(d.DBPath, base+constants.LogFileExt)
}

// NewSegmentBase generates a fresh segment base name: the current
// wall-clock nanosecond timestamp. Two successive calls each backing a
// distinct new key are expected to produce strictly increasing values.
func NewSegmentBase() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// RollActive appends the just-rolled active log's base name to DataFiles
// (re-sorting, so the list stays both lexicographically and
// chronologically ordered) and installs newActiveBase as the new active
// log.
func (d *Directory) RollActive(newActiveBase string) {
	d.DataFiles = append(d.DataFiles, d.ActiveLog)
	sort.Strings(d.DataFiles)
	d.ActiveLog = newActiveBase
}

// AddSeedDataFile records base as an immutable segment discovered or
// created outside of a roll, keeping DataFiles sorted.
func (d *Directory) AddSeedDataFile(base string) {
	d.DataFiles = append(d.DataFiles, base)
	sort.Strings(d.DataFiles)
}

// LocateSegmentFor returns the base name of the immutable segment that
// must contain tk: the largest DataFiles[i] <= tk. ok is false if tk is
// older than every known segment (meaning the directory or the index is
// corrupted, since every TK must be covered by some segment or the
// memtable).
func (d *Directory) LocateSegmentFor(tk string) (base string, nextBound string, ok bool) {
	idx := -1
	for i, df := range d.DataFiles {
		if df <= tk {
			idx = i
		} else {
			break
		}
	}
	if idx == -1 {
		return "", "", false
	}
	if idx+1 < len(d.DataFiles) {
		return d.DataFiles[idx], d.DataFiles[idx+1], true
	}
	return d.DataFiles[idx], d.ActiveLog, true
}

// AllSegmentPaths returns the full path of every segment file under the
// directory: every immutable .cky file in DataFiles order, followed by
// the single active .log file.
func (d *Directory) AllSegmentPaths() []string {
	paths := make([]string, 0, len(d.DataFiles)+1)
	for _, base := range d.DataFiles {
		paths = append(paths, d.DataFilePath(base))
	}
	paths = append(paths, d.LogFilePath())
	return paths
}

// Discover scans dbPath for existing segment files, partitions them by
// extension, and reports the resulting Directory. If no active log is
// found, a fresh one is created (so the returned Directory always names
// an existing .log file on disk).
func Discover(dbPath string) (*Directory, error) {
	entries, err := os.ReadDir(dbPath)
	if err != nil {
		return nil, err
	}

	d := &Directory{DBPath: dbPath}
	var logBases []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, constants.DataFileExt):
			d.DataFiles = append(d.DataFiles, strings.TrimSuffix(name, constants.DataFileExt))
		case strings.HasSuffix(name, constants.LogFileExt):
			logBases = append(logBases, strings.TrimSuffix(name, constants.LogFileExt))
		}
	}

	sort.Strings(d.DataFiles)
	sort.Strings(logBases)

	switch len(logBases) {
	case 0:
		base := NewSegmentBase()
		path := filepath.Join(dbPath, base+constants.LogFileExt)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		d.ActiveLog = base
	default:
		// Only one active log is ever expected; if discovery finds more
		// than one (e.g. a prior crash mid-roll), the largest (most
		// recent) base name wins and is treated as active.
		d.ActiveLog = logBases[len(logBases)-1]
	}

	return d, nil
}
