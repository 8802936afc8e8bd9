// Package engine is the storage engine's single point of entry: it owns
// the mutator lock that every public operation serializes through, and
// the compaction scheduler that runs underneath it. The Config struct,
// atomic closed flag, and CompareAndSwap-gated Close follow the shape of
// a typical embedded-engine bootstrap/teardown; the mutator lock is
// hoisted to this layer (rather than living inside the store) since the
// compactor also needs to take it around every cycle.
package engine

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/ckydb/internal/compaction"
	"github.com/iamNilotpal/ckydb/internal/store"
	pkgerrors "github.com/iamNilotpal/ckydb/pkg/errors"
	"github.com/iamNilotpal/ckydb/pkg/metrics"
	"github.com/iamNilotpal/ckydb/pkg/options"
	"go.uber.org/zap"
)

// ErrEngineClosed is returned when attempting to perform operations on a
// closed engine.
var ErrEngineClosed = errors.New("operation failed: cannot access closed engine")

// Engine coordinates the store and the compactor behind a single mutator
// lock: every set/get/delete/clear and every compaction cycle take the
// same lock, so none of them ever observes another mid-mutation.
type Engine struct {
	mu         sync.Mutex
	options    *options.Options
	log        *zap.SugaredLogger
	closed     atomic.Bool
	store      *store.Store
	compactor  *compaction.Compactor
}

// Config holds the parameters needed to initialize a new Engine.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
	Metrics *metrics.Collector
}

// New builds a Store over Config.Options.DBPath, wraps it with a
// compactor ticking at Config.Options.VacuumIntervalSec, starts the
// compactor, and returns the assembled Engine.
func New(config *Config) (*Engine, error) {
	s, err := store.Load(config.Options, config.Logger, config.Metrics)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		options: config.Options,
		log:     config.Logger,
		store:   s,
	}
	e.compactor = compaction.New(s, &e.mu, config.Options.VacuumIntervalSec, config.Logger, config.Metrics)
	if err := e.compactor.Start(); err != nil {
		return nil, err
	}

	return e, nil
}

// Set assigns value to key.
func (e *Engine) Set(key, value string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Set(key, value)
}

// Get returns the value currently stored for key.
func (e *Engine) Get(key string) (string, error) {
	if e.closed.Load() {
		return "", ErrEngineClosed
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Get(key)
}

// Delete removes key.
func (e *Engine) Delete(key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Delete(key)
}

// Clear wipes every key.
func (e *Engine) Clear() error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Clear()
}

// Close stops the compactor and marks the engine unusable. It is safe to
// call exactly once; a second call reports ErrEngineClosed.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}
	if err := e.compactor.Stop(); err != nil {
		return pkgerrors.NewIOError(err, "failed to stop compactor")
	}
	return nil
}
