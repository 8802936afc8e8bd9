// Package ckydb is the engine's embedding surface: the thin
// open/set/get/delete/clear/close API a host process links against
// directly, in-process, with no network hop. An Instance wraps
// *engine.Engine, with functional options applied over a defaults
// struct; every method call here goes straight through to
// internal/engine.
package ckydb

import (
	"github.com/iamNilotpal/ckydb/internal/engine"
	"github.com/iamNilotpal/ckydb/pkg/logger"
	"github.com/iamNilotpal/ckydb/pkg/metrics"
	"github.com/iamNilotpal/ckydb/pkg/options"
	"github.com/prometheus/client_golang/prometheus"
)

// Instance is one open database: a directory on disk plus the in-memory
// state (index, memtable, cache) that makes reads and writes fast.
type Instance struct {
	engine  *engine.Engine
	options *options.Options
}

// Open initializes (or recovers) a database at dbPath and returns a
// ready-to-use Instance. maxSegmentKB and vacuumIntervalSec set the
// segment-roll threshold and the compaction period; opts can override
// dbPath/threshold/interval again on top of those, for callers that
// prefer building their configuration entirely out of OptionFuncs.
func Open(dbPath string, maxSegmentKB, vacuumIntervalSec float64, opts ...options.OptionFunc) (*Instance, error) {
	return OpenWithRegisterer(dbPath, maxSegmentKB, vacuumIntervalSec, nil, opts...)
}

// OpenWithRegisterer is Open, but lets the caller supply the Prometheus
// registerer the instance's metrics are registered against (nil gets a
// private registry, the same as metrics.New(nil)).
func OpenWithRegisterer(dbPath string, maxSegmentKB, vacuumIntervalSec float64, reg prometheus.Registerer, opts ...options.OptionFunc) (*Instance, error) {
	resolved := options.NewDefaultOptions()
	resolved.DBPath = dbPath
	resolved.MaxSegmentKB = maxSegmentKB
	resolved.VacuumIntervalSec = vacuumIntervalSec
	for _, opt := range opts {
		opt(&resolved)
	}

	log := logger.New("ckydb")
	eng, err := engine.New(&engine.Config{
		Options: &resolved,
		Logger:  log,
		Metrics: metrics.New(reg),
	})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &resolved}, nil
}

// Set stores value under key, overwriting any existing value.
func (i *Instance) Set(key, value string) error {
	return i.engine.Set(key, value)
}

// Get returns the value currently stored under key.
func (i *Instance) Get(key string) (string, error) {
	return i.engine.Get(key)
}

// Delete removes key. Getting a deleted key reports not-found; the space
// it occupied on disk is reclaimed by the background compactor.
func (i *Instance) Delete(key string) error {
	return i.engine.Delete(key)
}

// Clear removes every key and resets the database to the state a fresh
// Open over an empty directory would produce.
func (i *Instance) Clear() error {
	return i.engine.Clear()
}

// Close stops the background compactor and marks the instance unusable.
// Callers must Open again to resume using the same directory.
func (i *Instance) Close() error {
	return i.engine.Close()
}
