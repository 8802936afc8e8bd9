// Package index implements the mapping from user key to timestamped key
// (TK), persisted as a serialized map-TC, with the RWMutex-guarded
// construction typical of an in-process index package. The
// append-on-insert optimization avoids rewriting the whole index file on
// every set.
package index

import (
	"sync"

	"github.com/iamNilotpal/ckydb/internal/constants"
	"github.com/iamNilotpal/ckydb/internal/container"
	"github.com/iamNilotpal/ckydb/pkg/filesys"
	"go.uber.org/zap"
)

// Index maps user keys to their timestamped keys. Mutated in memory and
// persisted incrementally: new keys are appended to the index file
// without a rewrite; deletions and clears rewrite the file in full.
type Index struct {
	mu   sync.RWMutex
	tc   *container.MapContainer
	path string
	log  *zap.SugaredLogger
}

// Load reads path (creating it if it doesn't exist) and parses its
// content as a map-TC.
func Load(path string, log *zap.SugaredLogger) (*Index, error) {
	content, err := readOrCreate(path)
	if err != nil {
		return nil, err
	}

	tc := container.NewMap()
	skipped, err := tc.Reload(content)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Warnw("discarded malformed tokens while loading index", "count", skipped)
	}

	return &Index{tc: tc, path: path, log: log}, nil
}

func readOrCreate(path string) (string, error) {
	exists, err := filesys.Exists(path)
	if err != nil {
		return "", err
	}
	if !exists {
		if err := filesys.WriteFile(path, 0644, nil); err != nil {
			return "", err
		}
		return "", nil
	}
	raw, err := filesys.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Lookup returns the TK mapped from userKey, if any.
func (idx *Index) Lookup(userKey string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	tk, err := idx.tc.Get(userKey)
	return tk, err == nil
}

// Keys returns every user key currently indexed.
func (idx *Index) Keys() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.tc.Keys()
}

// Len reports how many keys are indexed.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.tc.Len()
}

// InsertNew records a brand-new userKey -> tk mapping. It appends only
// the incremental bytes to the index file, rather than rewriting it, and
// mutates the in-memory container the same way a full Insert would.
// Calling it for a key that is already indexed is a programming error in
// the caller (the store only calls this once it has confirmed the key is
// new) and returns an error rather than silently clobbering the mapping.
func (idx *Index) InsertNew(userKey, tk string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.tc.Has(userKey) {
		return ErrAlreadyIndexed
	}

	if _, _, err := idx.tc.Insert(userKey, tk); err != nil {
		return err
	}

	token := userKey + constants.KVSep + tk + constants.TokSep
	if err := filesys.AppendFile(idx.path, 0644, []byte(token)); err != nil {
		// Roll back the in-memory mutation so the index stays coherent
		// with what's actually on disk.
		if _, delErr := idx.tc.Delete(userKey); delErr != nil {
			idx.log.Errorw("failed to roll back in-memory index after a failed append", "key", userKey, "error", delErr)
		}
		idx.log.Errorw("failed to append new key to index file", "key", userKey, "error", err)
		return err
	}
	return nil
}

// Delete removes userKey from the index, rewriting the index file in
// full with the entry filtered out.
func (idx *Index) Delete(userKey string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, err := idx.tc.Delete(userKey); err != nil {
		return err
	}
	if err := filesys.WriteFile(idx.path, 0644, []byte(idx.tc.Serialize())); err != nil {
		idx.log.Errorw("failed to persist index file after delete", "key", userKey, "error", err)
		return err
	}
	return nil
}

// RollbackInsert undoes a just-applied InsertNew (used by Store.Set when
// a later step in the write path fails): removes userKey from memory and
// rewrites the index file to match.
func (idx *Index) RollbackInsert(userKey string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, err := idx.tc.Delete(userKey); err != nil {
		return err
	}
	if err := filesys.WriteFile(idx.path, 0644, []byte(idx.tc.Serialize())); err != nil {
		idx.log.Errorw("failed to persist index file after rollback", "key", userKey, "error", err)
		return err
	}
	return nil
}

// Clear empties the index, in memory and on disk.
func (idx *Index) Clear() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.tc.Clear()
	return filesys.WriteFile(idx.path, 0644, nil)
}
