// Package container implements the tokenized container (TC): the engine's
// central data-structure innovation, where a textual serialization and an
// in-memory offset-addressed mapping are kept coherent in place, so that a
// single mutation costs one string splice and one map touch rather than a
// full re-serialization.
//
// Two flavors are provided: MapContainer, for key-value pages (the index,
// the memtable, every segment), and OrderedContainer, for the tombstone
// log, which is an ordered sequence rather than a mapping.
package container

import (
	"strings"

	"github.com/iamNilotpal/ckydb/internal/constants"
)

// mapEntry records where one key-value token lives inside the blob.
// Storing only offsets and lengths — not a copy of the value — is what
// makes offset/blob coherence checkable rather than assumed: Get always
// re-slices the live blob.
type mapEntry struct {
	start  int // byte offset where the key begins
	keyLen int
	valLen int
}

// totalLen is the number of bytes the full token `key<kv-sep>value<tok-sep>`
// occupies in the blob.
func (e mapEntry) totalLen() int {
	return e.keyLen + len(constants.KVSep) + e.valLen + len(constants.TokSep)
}

// MapContainer is the map-TC: entries are (key, value) pairs, serialized
// as `key1<kv-sep>val1<tok-sep>key2<kv-sep>val2<tok-sep>...`.
//
// MapContainer is not safe for concurrent use; callers (Index, Cache,
// Store) own whatever locking their component needs.
type MapContainer struct {
	blob    string
	offsets map[string]mapEntry
}

// NewMap returns an empty map-TC.
func NewMap() *MapContainer {
	return &MapContainer{offsets: make(map[string]mapEntry)}
}

// Len returns the number of entries currently held.
func (m *MapContainer) Len() int {
	return len(m.offsets)
}

// Has reports whether key is present, without the coherence check Get
// performs (cheap existence probe).
func (m *MapContainer) Has(key string) bool {
	_, ok := m.offsets[key]
	return ok
}

// coherentKey verifies that the bytes at e's recorded start still spell
// out key — the per-access check that turns offset/blob coherence from a
// hoped-for invariant into an enforced one.
func (m *MapContainer) coherentKey(key string, e mapEntry) bool {
	if e.start < 0 || e.start+e.keyLen > len(m.blob) {
		return false
	}
	return m.blob[e.start:e.start+e.keyLen] == key
}

// Get returns the value currently stored for key.
func (m *MapContainer) Get(key string) (string, error) {
	e, ok := m.offsets[key]
	if !ok {
		return "", ErrNotFound
	}
	if !m.coherentKey(key, e) {
		return "", ErrCorrupted
	}
	valStart := e.start + e.keyLen + len(constants.KVSep)
	if valStart+e.valLen > len(m.blob) {
		return "", ErrCorrupted
	}
	return m.blob[valStart : valStart+e.valLen], nil
}

// Insert upserts key with value. For a new key, the token is appended to
// the blob. For an existing key, only the value bytes are spliced in
// place, and every entry whose token starts after the replaced value is
// shifted by the byte delta — skipping that shift for even one later
// entry is the single likeliest way to desynchronize the offset table
// from the blob it describes.
//
// Returns the previous value (empty, with isNew=true, if key was absent)
// and whether this was a fresh insertion.
func (m *MapContainer) Insert(key, value string) (prev string, isNew bool, err error) {
	e, exists := m.offsets[key]
	if !exists {
		start := len(m.blob)
		m.blob += key + constants.KVSep + value + constants.TokSep
		m.offsets[key] = mapEntry{start: start, keyLen: len(key), valLen: len(value)}
		return "", true, nil
	}

	if !m.coherentKey(key, e) {
		return "", false, ErrCorrupted
	}

	valStart := e.start + e.keyLen + len(constants.KVSep)
	valEnd := valStart + e.valLen
	if valEnd > len(m.blob) {
		return "", false, ErrCorrupted
	}

	oldValue := m.blob[valStart:valEnd]
	m.blob = m.blob[:valStart] + value + m.blob[valEnd:]
	delta := len(value) - len(oldValue)

	e.valLen = len(value)
	m.offsets[key] = e

	if delta != 0 {
		for k, other := range m.offsets {
			if k == key {
				continue
			}
			if other.start > e.start {
				other.start += delta
				m.offsets[k] = other
			}
		}
	}

	return oldValue, false, nil
}

// Delete removes key's entire token from the blob and shifts every later
// entry left by the removed byte count.
func (m *MapContainer) Delete(key string) (string, error) {
	e, ok := m.offsets[key]
	if !ok {
		return "", ErrNotFound
	}
	if !m.coherentKey(key, e) {
		return "", ErrCorrupted
	}

	removedLen := e.totalLen()
	valStart := e.start + e.keyLen + len(constants.KVSep)
	removedValue := m.blob[valStart : valStart+e.valLen]

	m.blob = m.blob[:e.start] + m.blob[e.start+removedLen:]
	delete(m.offsets, key)

	for k, other := range m.offsets {
		if other.start > e.start {
			other.start -= removedLen
			m.offsets[k] = other
		}
	}

	return removedValue, nil
}

// Clear empties the blob, mapping and offset table.
func (m *MapContainer) Clear() {
	m.blob = ""
	m.offsets = make(map[string]mapEntry)
}

// Serialize returns the backing blob verbatim; this is exactly what gets
// written to disk.
func (m *MapContainer) Serialize() string {
	return m.blob
}

// Reload replaces the container's contents by parsing content: split on
// the token separator, then each token on the key-value separator.
// Tokens that don't split into exactly one key and one value are
// malformed and are discarded — this is what lets the engine tolerate a
// torn write at the tail of a log file. skipped reports how many tokens
// were discarded, so a caller that cares (internal/index logs it) can
// tell a clean file from one that just survived a crash.
func (m *MapContainer) Reload(content string) (skipped int, err error) {
	m.Clear()
	if content == "" {
		return 0, nil
	}

	tokens := strings.Split(content, constants.TokSep)
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		parts := strings.Split(tok, constants.KVSep)
		if len(parts) != 2 {
			skipped++
			continue
		}
		key, value := parts[0], parts[1]
		start := len(m.blob)
		m.blob += key + constants.KVSep + value + constants.TokSep
		m.offsets[key] = mapEntry{start: start, keyLen: len(key), valLen: len(value)}
	}
	return skipped, nil
}

// Keys returns the container's keys, ordered by their position in the
// blob (insertion order, modulo in-place value updates which do not move
// a key), i.e. in their on-disk order.
func (m *MapContainer) Keys() []string {
	type ko struct {
		key   string
		start int
	}
	ordered := make([]ko, 0, len(m.offsets))
	for k, e := range m.offsets {
		ordered = append(ordered, ko{k, e.start})
	}
	// Simple insertion sort is fine here: segment pages are small enough
	// in practice that this never dominates, and it keeps the container
	// free of a sort-package dependency for what is usually a handful of
	// entries.
	for i := 1; i < len(ordered); i++ {
		j := i
		for j > 0 && ordered[j-1].start > ordered[j].start {
			ordered[j-1], ordered[j] = ordered[j], ordered[j-1]
			j--
		}
	}
	keys := make([]string, len(ordered))
	for i, o := range ordered {
		keys[i] = o.key
	}
	return keys
}
