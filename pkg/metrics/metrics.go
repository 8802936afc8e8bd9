// Package metrics instruments the storage engine with Prometheus
// counters: a `reg prometheus.Registerer` field plus a small struct of
// named counters, alongside the engine's other state.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector holds every counter the engine reports.
type Collector struct {
	Sets             prometheus.Counter
	Gets             prometheus.Counter
	Deletes          prometheus.Counter
	CompactionCycles prometheus.Counter
	CompactionErrors prometheus.Counter
	KeysReclaimed    prometheus.Counter
	BytesRewritten   prometheus.Counter
}

// New builds a Collector and registers it against reg. If reg is nil, a
// fresh private registry is used — callers that don't care about
// exporting metrics (tests, one-off CLI tools) never have to plumb a
// registerer through.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	c := &Collector{
		Sets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ckydb_sets_total", Help: "Total number of Set operations.",
		}),
		Gets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ckydb_gets_total", Help: "Total number of Get operations.",
		}),
		Deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ckydb_deletes_total", Help: "Total number of Delete operations.",
		}),
		CompactionCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ckydb_compaction_cycles_total", Help: "Total number of compaction cycles run.",
		}),
		CompactionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ckydb_compaction_errors_total", Help: "Total number of errors encountered during compaction.",
		}),
		KeysReclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ckydb_compaction_keys_reclaimed_total", Help: "Total number of tombstoned keys physically removed.",
		}),
		BytesRewritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ckydb_compaction_bytes_rewritten_total", Help: "Total number of segment bytes rewritten by compaction.",
		}),
	}

	reg.MustRegister(
		c.Sets, c.Gets, c.Deletes,
		c.CompactionCycles, c.CompactionErrors,
		c.KeysReclaimed, c.BytesRewritten,
	)
	return c
}
