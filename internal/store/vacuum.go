package store

import (
	"github.com/iamNilotpal/ckydb/internal/container"
	pkgerrors "github.com/iamNilotpal/ckydb/pkg/errors"
	"github.com/iamNilotpal/ckydb/pkg/filesys"
)

// Vacuum is the compaction mechanism: it reads the tombstone log, removes
// every tombstoned entry from whichever segment actually holds it, and
// truncates the tombstone log once done. It mutates the memtable and
// cache through their normal Delete calls rather than rewriting their
// backing files by hand, so an entry tombstoned while it still lives in
// the active log or a cached segment is removed from memory as well as
// from disk — otherwise the next plain Set through that same page would
// serialize the stale entry right back.
//
// A single segment failing to read or write does not abort the cycle;
// it's logged and counted, and the rest of the cycle proceeds. The
// tombstone log is still truncated at the end of the cycle, so the
// entries of a segment that failed stay on disk and are not retried by a
// later cycle; they remain unreachable, since the index no longer names
// them.
func (s *Store) Vacuum() error {
	raw, err := filesys.ReadFile(s.dir.DeleteFilePath())
	if err != nil {
		return pkgerrors.NewIOError(err, "failed to read tombstone log")
	}

	tombstones := container.NewOrdered()
	if err := tombstones.Reload(string(raw)); err != nil {
		return pkgerrors.NewIOError(err, "failed to parse tombstone log")
	}
	if tombstones.Len() == 0 {
		return nil
	}

	var memtableTKs []string
	perSegment := make(map[string][]string)

	for _, tk := range tombstones.Values() {
		if tk >= s.dir.ActiveLog {
			memtableTKs = append(memtableTKs, tk)
			continue
		}
		base, _, ok := s.dir.LocateSegmentFor(tk)
		if !ok {
			s.metrics.CompactionErrors.Inc()
			s.log.Errorw("tombstoned key has no owning segment", "tk", tk)
			continue
		}
		perSegment[base] = append(perSegment[base], tk)
	}

	reclaimed := 0
	bytesRewritten := 0

	if n, delta, err := s.compactMemtable(memtableTKs); err != nil {
		s.metrics.CompactionErrors.Inc()
		s.log.Errorw("failed to compact active log", "error", err)
	} else {
		reclaimed += n
		bytesRewritten += delta
	}

	for base, tks := range perSegment {
		n, delta, err := s.compactSegment(base, tks)
		if err != nil {
			s.metrics.CompactionErrors.Inc()
			s.log.Errorw("failed to compact segment", "segment", base, "error", err)
			continue
		}
		reclaimed += n
		bytesRewritten += delta
	}

	if err := filesys.WriteFile(s.dir.DeleteFilePath(), 0644, nil); err != nil {
		return pkgerrors.NewIOError(err, "failed to truncate tombstone log")
	}

	s.metrics.CompactionCycles.Inc()
	if reclaimed > 0 {
		s.metrics.KeysReclaimed.Add(float64(reclaimed))
	}
	if bytesRewritten > 0 {
		s.metrics.BytesRewritten.Add(float64(bytesRewritten))
	}
	return nil
}

// compactMemtable removes every tk in tks from the in-memory memtable and,
// if anything was actually removed, rewrites the active log to match.
func (s *Store) compactMemtable(tks []string) (removed int, bytesDelta int, err error) {
	if len(tks) == 0 {
		return 0, 0, nil
	}
	before := len(s.memtable.Serialize())
	for _, tk := range tks {
		if _, delErr := s.memtable.Delete(tk); delErr == nil {
			removed++
		}
	}
	if removed == 0 {
		return 0, 0, nil
	}
	after := s.memtable.Serialize()
	if err := filesys.WriteFile(s.dir.LogFilePath(), 0644, []byte(after)); err != nil {
		return removed, 0, err
	}
	return removed, before - len(after), nil
}

// compactSegment removes every tk in tks from the immutable segment named
// base. If base is the segment currently held in cache, the cache's
// in-memory page is mutated directly (and rewritten); otherwise the
// segment is read from disk into a throwaway container, filtered, and
// written back.
func (s *Store) compactSegment(base string, tks []string) (removed int, bytesDelta int, err error) {
	if s.cacheBase == base {
		before := len(s.cache.Serialize())
		for _, tk := range tks {
			if _, delErr := s.cache.Delete(tk); delErr == nil {
				removed++
			}
		}
		if removed == 0 {
			return 0, 0, nil
		}
		after := s.cache.Serialize()
		if err := filesys.WriteFile(s.dir.DataFilePath(base), 0644, []byte(after)); err != nil {
			return removed, 0, err
		}
		return removed, before - len(after), nil
	}

	raw, err := filesys.ReadFile(s.dir.DataFilePath(base))
	if err != nil {
		return 0, 0, err
	}

	tmp := container.NewMap()
	if _, err := tmp.Reload(string(raw)); err != nil {
		return 0, 0, err
	}
	for _, tk := range tks {
		if _, delErr := tmp.Delete(tk); delErr == nil {
			removed++
		}
	}
	if removed == 0 {
		return 0, 0, nil
	}

	after := tmp.Serialize()
	if err := filesys.WriteFile(s.dir.DataFilePath(base), 0644, []byte(after)); err != nil {
		return removed, 0, err
	}
	return removed, len(raw) - len(after), nil
}
