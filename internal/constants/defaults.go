package constants

// DefaultMaxSegmentKB is the segment-roll threshold used when the caller
// does not specify one, in kilobytes.
const DefaultMaxSegmentKB float64 = 4096

// DefaultVacuumIntervalSec is the period between compaction cycles used
// when the caller does not specify one, in seconds.
const DefaultVacuumIntervalSec float64 = 3600

// CompactorTickIntervalMS is the wall-clock period, in milliseconds, at which the compactor's
// accumulator is checked against the configured vacuum interval, and at
// which a pending stop signal is noticed: a shutdown-latency vs. CPU
// tradeoff, fixed at 100ms.
const CompactorTickIntervalMS = 100
