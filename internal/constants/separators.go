// Package constants holds the fixed, on-disk-format-defining values shared
// across the storage engine: byte separators, well-known filenames, and
// tunable defaults. Kept as a dedicated package (rather than scattered
// package-local consts) so every component agrees on the exact same bytes.
package constants

import (
	"strings"

	pkgerrors "github.com/iamNilotpal/ckydb/pkg/errors"
)

// KVSep separates a key from its value within a single map-container
// token. Exactly 7 bytes, chosen to be vanishingly unlikely to occur in
// real keys or values; the engine does not escape it, so callers must not
// use it inside keys or values (see ValidateToken).
const KVSep = "><?&(^#"

// TokSep separates successive tokens (key-value pairs, or bare ordered
// values) within a container's serialized blob. Exactly 8 bytes.
const TokSep = "$%#@*&^&"

// ValidateToken reports whether key or value contains either separator as
// a substring. The engine does not escape these bytes, so a key or value
// that contains one would desynchronize a container's offset table from
// its blob the moment it's serialized and reloaded; this is the boundary
// check that keeps that from ever reaching disk.
func ValidateToken(key, value string) error {
	if strings.Contains(key, KVSep) || strings.Contains(key, TokSep) {
		return pkgerrors.NewCorrupted(nil, "separator", "key contains a reserved separator sequence")
	}
	if strings.Contains(value, KVSep) || strings.Contains(value, TokSep) {
		return pkgerrors.NewCorrupted(nil, "separator", "value contains a reserved separator sequence")
	}
	return nil
}
