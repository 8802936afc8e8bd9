// Package options defines the engine's configuration surface: the
// database directory, the segment-roll size threshold, and the
// interval between compaction cycles. A functional-options pattern (OptionFunc,
// WithDefaultOptions, With<Field>) applied over the three parameters
// open() actually takes.
package options

import (
	"strings"

	"github.com/iamNilotpal/ckydb/internal/constants"
)

// Options holds the configuration parameters controlling one engine
// instance.
type Options struct {
	// DBPath is the directory under which all segment, index and
	// tombstone files live.
	DBPath string

	// MaxSegmentKB is the size, in kilobytes, at which the active log
	// segment is rolled into an immutable data segment.
	MaxSegmentKB float64

	// VacuumIntervalSec is the period, in seconds, at which the
	// compactor attempts a cycle.
	VacuumIntervalSec float64
}

// OptionFunc mutates an Options value in place.
type OptionFunc func(*Options)

// NewDefaultOptions returns the Options an engine uses when the caller
// applies no overrides.
func NewDefaultOptions() Options {
	return Options{
		DBPath:            ".",
		MaxSegmentKB:      constants.DefaultMaxSegmentKB,
		VacuumIntervalSec: constants.DefaultVacuumIntervalSec,
	}
}

// WithDefaultOptions resets every field to its default.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithDBPath sets the database directory, ignoring a blank value.
func WithDBPath(path string) OptionFunc {
	return func(o *Options) {
		path = strings.TrimSpace(path)
		if path != "" {
			o.DBPath = path
		}
	}
}

// WithMaxSegmentKB sets the segment-roll threshold, ignoring a
// non-positive value.
func WithMaxSegmentKB(kb float64) OptionFunc {
	return func(o *Options) {
		if kb > 0 {
			o.MaxSegmentKB = kb
		}
	}
}

// WithVacuumIntervalSec sets the interval between compaction cycles, ignoring a
// non-positive value.
func WithVacuumIntervalSec(sec float64) OptionFunc {
	return func(o *Options) {
		if sec > 0 {
			o.VacuumIntervalSec = sec
		}
	}
}
