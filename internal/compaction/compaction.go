// Package compaction schedules the store's compaction mechanism: it owns
// nothing about segment files itself, only the state machine and the
// timer that decide when to call Store.Vacuum. It follows the usual
// mu/running/stopCh/doneCh background-worker lifecycle, with a
// ticker-driven runLoop selecting on stopCh, delegating the actual
// segment rewriting to a single Vacuum call on internal/store.
package compaction

import (
	"sync"
	"time"

	"github.com/iamNilotpal/ckydb/internal/constants"
	pkgerrors "github.com/iamNilotpal/ckydb/pkg/errors"
	"github.com/iamNilotpal/ckydb/pkg/metrics"
	"go.uber.org/zap"
)

// State names where the compactor currently is in its lifecycle.
type State int32

const (
	StateStopped State = iota
	StateIdle
	StateCompacting
	StateStopping
)

// Vacuumer is the one store operation the compactor drives. A narrow
// interface so tests can swap in a fake without building a whole Store.
type Vacuumer interface {
	Vacuum() error
}

// Compactor runs Vacuum on a fixed period in a background goroutine,
// serialized against every other store mutation through mutatorLock —
// the same lock internal/engine uses to guard Set/Get/Delete/Clear, so a
// compaction cycle and a foreground call never interleave.
type Compactor struct {
	vacuum      Vacuumer
	mutatorLock *sync.Mutex
	intervalSec float64
	log         *zap.SugaredLogger
	metrics     *metrics.Collector

	stateMu sync.Mutex
	state   State
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New builds a Compactor. It starts in StateStopped; Start must be called
// to begin ticking.
func New(vacuum Vacuumer, mutatorLock *sync.Mutex, intervalSec float64, log *zap.SugaredLogger, m *metrics.Collector) *Compactor {
	return &Compactor{
		vacuum:      vacuum,
		mutatorLock: mutatorLock,
		intervalSec: intervalSec,
		log:         log,
		metrics:     m,
		state:       StateStopped,
	}
}

// State reports the compactor's current lifecycle state.
func (c *Compactor) State() State {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

// Start begins the background ticking loop. Calling Start on an already
// running compactor reports a lifecycle error rather than silently
// restarting it.
func (c *Compactor) Start() error {
	c.stateMu.Lock()
	if c.state != StateStopped {
		c.stateMu.Unlock()
		return pkgerrors.NewAlreadyRunning("compactor")
	}
	c.state = StateIdle
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	stopCh, doneCh := c.stopCh, c.doneCh
	c.stateMu.Unlock()

	go c.runLoop(stopCh, doneCh)
	return nil
}

// Stop signals the background loop to exit and waits for it to finish.
// Calling Stop on a compactor that isn't running reports a lifecycle
// error.
func (c *Compactor) Stop() error {
	c.stateMu.Lock()
	if c.state == StateStopped || c.state == StateStopping {
		c.stateMu.Unlock()
		return pkgerrors.NewNotRunning("compactor")
	}
	c.state = StateStopping
	stopCh, doneCh := c.stopCh, c.doneCh
	c.stateMu.Unlock()

	close(stopCh)
	<-doneCh

	c.stateMu.Lock()
	c.state = StateStopped
	c.stateMu.Unlock()
	return nil
}

// runLoop ticks every constants.CompactorTickIntervalMS and accumulates
// elapsed time until it reaches intervalSec, at which point it runs one
// compaction cycle and resets the accumulator. Ticking in small fixed
// steps rather than using a single long timer means an idle compactor
// notices Stop within one tick; a cycle already in progress runs to
// completion first.
func (c *Compactor) runLoop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(time.Duration(constants.CompactorTickIntervalMS) * time.Millisecond)
	defer ticker.Stop()

	tickSeconds := float64(constants.CompactorTickIntervalMS) / 1000.0
	var accumulated float64

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			accumulated += tickSeconds
			if accumulated < c.intervalSec {
				continue
			}
			accumulated = 0
			c.runCycle()
		}
	}
}

// runCycle runs exactly one compaction cycle under the mutator lock.
func (c *Compactor) runCycle() {
	c.stateMu.Lock()
	if c.state != StateIdle {
		c.stateMu.Unlock()
		return
	}
	c.state = StateCompacting
	c.stateMu.Unlock()

	c.mutatorLock.Lock()
	err := c.vacuum.Vacuum()
	c.mutatorLock.Unlock()

	c.stateMu.Lock()
	if c.state == StateCompacting {
		c.state = StateIdle
	}
	c.stateMu.Unlock()

	if err != nil {
		c.metrics.CompactionErrors.Inc()
		c.log.Errorw("compaction cycle failed", "error", err)
	}
}
