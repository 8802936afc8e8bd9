// Package store implements the engine's central coordinator: it owns the
// memtable, the segment cache, the segment directory and the index, and
// turns the four public operations (set, get, delete, clear) plus the
// background compaction mechanism into a sequence of container and
// filesystem calls. The bootstrap-on-load shape, small Config-style
// construction, and sugared-logger-plus-metrics fields follow a typical
// embedded-storage coordinator: one type in front of an on-disk layout,
// fused with a segment cache and compaction mechanism.
package store

import (
	"fmt"
	"time"

	"github.com/iamNilotpal/ckydb/internal/cache"
	"github.com/iamNilotpal/ckydb/internal/constants"
	"github.com/iamNilotpal/ckydb/internal/container"
	"github.com/iamNilotpal/ckydb/internal/index"
	"github.com/iamNilotpal/ckydb/internal/segdir"
	pkgerrors "github.com/iamNilotpal/ckydb/pkg/errors"
	"github.com/iamNilotpal/ckydb/pkg/filesys"
	"github.com/iamNilotpal/ckydb/pkg/metrics"
	"github.com/iamNilotpal/ckydb/pkg/options"
	"go.uber.org/zap"
)

// Store coordinates the memtable, the segment cache, the segment
// directory, the index and the tombstone log into the four read/write
// operations and the compaction mechanism. Store itself holds no lock of
// its own: callers (internal/engine) serialize every call to it through a
// single mutator lock.
type Store struct {
	dbPath  string
	options *options.Options
	log     *zap.SugaredLogger
	metrics *metrics.Collector

	dir      *segdir.Directory
	idx      *index.Index
	memtable *container.MapContainer
	cache    *cache.Cache

	// cacheBase names the data segment currently held in cache, so that a
	// Set routed through the cache knows which file to rewrite. Empty
	// when the cache hasn't loaded anything yet.
	cacheBase string
}

// Load bootstraps a Store over dbPath: it discovers (or creates) the
// segment layout, loads the index, runs one compaction cycle to clear any
// tombstones left over from a prior run, and reloads the active log's
// content into the memtable.
func Load(opts *options.Options, log *zap.SugaredLogger, m *metrics.Collector) (*Store, error) {
	s := &Store{options: opts, dbPath: opts.DBPath, log: log, metrics: m}
	if err := s.bootstrap(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) bootstrap() error {
	if err := filesys.CreateDir(s.dbPath, 0755); err != nil {
		return pkgerrors.NewIOError(err, "failed to create database directory")
	}

	dir, err := segdir.Discover(s.dbPath)
	if err != nil {
		return pkgerrors.NewIOError(err, "failed to discover segment layout")
	}
	s.dir = dir

	idx, err := index.Load(dir.IndexFilePath(), s.log)
	if err != nil {
		return pkgerrors.NewIOError(err, "failed to load index")
	}
	s.idx = idx

	exists, err := filesys.Exists(dir.DeleteFilePath())
	if err != nil {
		return pkgerrors.NewIOError(err, "failed to probe tombstone file")
	}
	if !exists {
		if err := filesys.WriteFile(dir.DeleteFilePath(), 0644, nil); err != nil {
			return pkgerrors.NewIOError(err, "failed to create tombstone file")
		}
	}

	s.memtable = container.NewMap()
	s.cache = cache.New()

	content, err := filesys.ReadFile(dir.LogFilePath())
	if err != nil {
		return pkgerrors.NewIOError(err, "failed to read active log segment")
	}
	skipped, err := s.memtable.Reload(string(content))
	if err != nil {
		return pkgerrors.NewIOError(err, "failed to parse active log segment")
	}
	if skipped > 0 {
		s.log.Warnw("discarded malformed tokens while loading active log", "count", skipped)
	}

	// Clear out anything tombstoned by a previous, possibly crashed, run
	// before serving the first request.
	if err := s.Vacuum(); err != nil {
		s.log.Errorw("startup compaction cycle failed", "error", err)
	}

	return nil
}

// Set assigns value to key. A brand-new key is given a fresh timestamped
// key and routed to the memtable; an existing key is routed to whichever
// segment its timestamped key already lives in. Any failure after the
// index has recorded a new key rolls that index entry back, so a failed
// Set never leaves a key half-visible.
func (s *Store) Set(key, value string) error {
	if err := constants.ValidateToken(key, value); err != nil {
		return err
	}

	tk, existed := s.idx.Lookup(key)
	isNew := !existed
	if isNew {
		tk = fmt.Sprintf("%d-%s", time.Now().UnixNano(), key)
		if err := s.idx.InsertNew(key, tk); err != nil {
			return pkgerrors.NewCorrupted(err, "index", "failed to record new key")
		}
	}

	if tk >= s.dir.ActiveLog {
		if _, _, err := s.memtable.Insert(tk, value); err != nil {
			s.rollbackNew(isNew, key)
			return pkgerrors.NewCorrupted(err, "memtable", "failed to insert into active log")
		}
		if err := filesys.WriteFile(s.dir.LogFilePath(), 0644, []byte(s.memtable.Serialize())); err != nil {
			s.rollbackNew(isNew, key)
			return pkgerrors.NewCorrupted(err, "memtable", "failed to persist active log")
		}
		s.metrics.Sets.Inc()
		if err := s.rollIfNeeded(); err != nil {
			return err
		}
		return nil
	}

	if err := s.ensureCacheFor(tk); err != nil {
		s.rollbackNew(isNew, key)
		return err
	}
	if _, _, err := s.cache.Insert(tk, value); err != nil {
		s.rollbackNew(isNew, key)
		return pkgerrors.NewCorrupted(err, "cache", "failed to insert into cached segment")
	}
	if err := filesys.WriteFile(s.dir.DataFilePath(s.cacheBase), 0644, []byte(s.cache.Serialize())); err != nil {
		s.rollbackNew(isNew, key)
		return pkgerrors.NewCorrupted(err, "cache", "failed to persist cached segment")
	}
	s.metrics.Sets.Inc()
	return nil
}

func (s *Store) rollbackNew(isNew bool, key string) {
	if !isNew {
		return
	}
	if err := s.idx.RollbackInsert(key); err != nil {
		s.log.Errorw("failed to roll back index insert after a failed set", "key", key, "error", err)
	}
}

// Get returns the value currently stored for key.
func (s *Store) Get(key string) (string, error) {
	tk, ok := s.idx.Lookup(key)
	if !ok {
		return "", pkgerrors.NewNotFound(key)
	}

	if tk >= s.dir.ActiveLog {
		v, err := s.memtable.Get(tk)
		if err != nil {
			return "", pkgerrors.NewCorrupted(err, "memtable", "indexed key missing from active log")
		}
		s.metrics.Gets.Inc()
		return v, nil
	}

	if err := s.ensureCacheFor(tk); err != nil {
		return "", err
	}
	v, err := s.cache.Get(tk)
	if err != nil {
		return "", pkgerrors.NewCorrupted(err, "cache", "indexed key missing from its segment")
	}
	s.metrics.Gets.Inc()
	return v, nil
}

// Delete removes key. The value is left in place on disk; compaction
// physically reclaims it later. Deleting the same key twice in a row (the
// second call finding nothing in the index) is reported as not-found,
// exactly like Get.
func (s *Store) Delete(key string) error {
	tk, ok := s.idx.Lookup(key)
	if !ok {
		return pkgerrors.NewNotFound(key)
	}

	if err := s.idx.Delete(key); err != nil {
		return pkgerrors.NewCorrupted(err, "index", "failed to remove key from index")
	}

	if err := filesys.AppendFile(s.dir.DeleteFilePath(), 0644, []byte(tk+constants.TokSep)); err != nil {
		return pkgerrors.NewCorrupted(err, "tombstone", "failed to record tombstone")
	}

	s.metrics.Deletes.Inc()
	return nil
}

// Clear wipes every key, segment, index and tombstone entry and
// reinitializes the store exactly as a fresh Load over an empty directory
// would.
func (s *Store) Clear() error {
	if err := filesys.RemoveAll(s.dbPath); err != nil {
		return pkgerrors.NewIOError(err, "failed to remove database directory")
	}
	if err := s.bootstrapClear(); err != nil {
		return pkgerrors.NewIOError(err, "failed to reinitialize database directory")
	}
	return nil
}

// bootstrapClear re-runs bootstrap's discovery/index/memtable setup after
// a Clear, replacing only the fields that name on-disk state — the
// mutator lock this Store is called under lives one layer up, in
// internal/engine, so there is no lock here to avoid copying.
func (s *Store) bootstrapClear() error {
	if err := filesys.CreateDir(s.dbPath, 0755); err != nil {
		return err
	}

	dir, err := segdir.Discover(s.dbPath)
	if err != nil {
		return err
	}
	s.dir = dir

	idx, err := index.Load(dir.IndexFilePath(), s.log)
	if err != nil {
		return err
	}
	s.idx = idx

	if err := filesys.WriteFile(dir.DeleteFilePath(), 0644, nil); err != nil {
		return err
	}

	s.memtable = container.NewMap()
	s.cache = cache.New()
	s.cacheBase = ""
	return nil
}

// ensureCacheFor makes sure the cache currently holds the segment that tk
// belongs to, loading it from disk if necessary.
func (s *Store) ensureCacheFor(tk string) error {
	if s.cache.InRange(tk) {
		return nil
	}

	base, nextBound, ok := s.dir.LocateSegmentFor(tk)
	if !ok {
		return pkgerrors.NewCorrupted(nil, "segment-directory", "timestamped key is older than every known segment")
	}

	content, err := filesys.ReadFile(s.dir.DataFilePath(base))
	if err != nil {
		return pkgerrors.NewCorruptedSegment(err, base, "failed to read segment")
	}
	if _, err := s.cache.Reload(string(content), base, nextBound); err != nil {
		return pkgerrors.NewCorruptedSegment(err, base, "failed to parse segment")
	}
	s.cacheBase = base
	return nil
}

// rollIfNeeded renames the active log into an immutable data segment once
// it has grown past the configured threshold, and starts a fresh, empty
// active log in its place.
func (s *Store) rollIfNeeded() error {
	size, err := filesys.FileSize(s.dir.LogFilePath())
	if err != nil {
		return pkgerrors.NewCorrupted(err, "segment-directory", "failed to stat active log")
	}

	threshold := int64(s.options.MaxSegmentKB * 1024)
	if size < threshold {
		return nil
	}

	oldBase := s.dir.ActiveLog
	oldLogPath := s.dir.LogFilePath()
	newBase := segdir.NewSegmentBase()

	if err := filesys.Rename(oldLogPath, s.dir.DataFilePath(oldBase)); err != nil {
		return pkgerrors.NewCorruptedSegment(err, oldBase, "failed to roll active log into a segment")
	}

	s.dir.RollActive(newBase)

	if err := filesys.WriteFile(s.dir.LogFilePath(), 0644, nil); err != nil {
		return pkgerrors.NewCorrupted(err, "segment-directory", "failed to create new active log")
	}

	s.memtable.Clear()
	return nil
}
