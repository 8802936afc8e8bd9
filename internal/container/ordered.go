package container

import (
	"strings"

	"github.com/iamNilotpal/ckydb/internal/constants"
)

// orderedEntry records where one token lives inside an OrderedContainer's
// blob.
type orderedEntry struct {
	start int
	length int
}

// OrderedContainer is the ordered-TC: entries are bare values in
// insertion order, serialized as `val1<tok-sep>val2<tok-sep>...`. Used for
// the tombstone log, where the only operations needed are append, index
// lookup, and bulk removal.
//
// Not safe for concurrent use.
type OrderedContainer struct {
	blob    string
	offsets []orderedEntry
}

// NewOrdered returns an empty ordered-TC.
func NewOrdered() *OrderedContainer {
	return &OrderedContainer{}
}

// Len returns the number of entries.
func (o *OrderedContainer) Len() int {
	return len(o.offsets)
}

// Push appends value as a new last entry.
func (o *OrderedContainer) Push(value string) {
	start := len(o.blob)
	o.blob += value + constants.TokSep
	o.offsets = append(o.offsets, orderedEntry{start: start, length: len(value)})
}

// Get returns the value at position i.
func (o *OrderedContainer) Get(i int) (string, error) {
	if i < 0 || i >= len(o.offsets) {
		return "", ErrNotFound
	}
	e := o.offsets[i]
	if e.start < 0 || e.start+e.length > len(o.blob) {
		return "", ErrCorrupted
	}
	return o.blob[e.start : e.start+e.length], nil
}

// Values returns every entry in order, as a plain slice.
func (o *OrderedContainer) Values() []string {
	values := make([]string, len(o.offsets))
	for i := range o.offsets {
		v, _ := o.Get(i)
		values[i] = v
	}
	return values
}

// Remove splices out the token at position i and shifts every later
// offset left by the removed byte count.
func (o *OrderedContainer) Remove(i int) error {
	if i < 0 || i >= len(o.offsets) {
		return ErrNotFound
	}
	e := o.offsets[i]
	removedLen := e.length + len(constants.TokSep)

	o.blob = o.blob[:e.start] + o.blob[e.start+removedLen:]
	o.offsets = append(o.offsets[:i], o.offsets[i+1:]...)

	for j := range o.offsets {
		if o.offsets[j].start > e.start {
			o.offsets[j].start -= removedLen
		}
	}
	return nil
}

// RemoveMany removes every position named in indices, which must be
// sorted ascending. Removal proceeds from the highest index down so that
// earlier indices stay valid as later ones are spliced out.
func (o *OrderedContainer) RemoveMany(indices []int) error {
	for i := len(indices) - 1; i >= 0; i-- {
		if err := o.Remove(indices[i]); err != nil {
			return err
		}
	}
	return nil
}

// Clear empties the blob and offset table.
func (o *OrderedContainer) Clear() {
	o.blob = ""
	o.offsets = nil
}

// Serialize returns the backing blob verbatim.
func (o *OrderedContainer) Serialize() string {
	return o.blob
}

// Reload replaces the container's contents by splitting content on the
// token separator. Unlike MapContainer, there is no malformed-token
// concept here since any string is a valid ordered entry; an empty
// trailing token (from a trailing separator) is simply skipped.
func (o *OrderedContainer) Reload(content string) error {
	o.Clear()
	if content == "" {
		return nil
	}
	for _, tok := range strings.Split(content, constants.TokSep) {
		if tok == "" {
			continue
		}
		o.Push(tok)
	}
	return nil
}
