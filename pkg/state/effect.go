package state

import (
	"sync"
	"sync/atomic"
)

// Effect represents a reactive side effect that re-runs when its
// dependencies change. Effects run immediately when created and again
// whenever any signal or memo they read during execution changes. They
// can return a Cleanup function that is called before the effect
// re-runs and when the effect is disposed.
type Effect struct {
	id uint64

	// fn is the effect function to run.
	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// sources are the signals/memos this effect depends on.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// owner is the Owner that owns this effect, if any.
	owner *Owner

	// pending indicates the effect needs to run.
	pending atomic.Bool

	// running guards against recursive re-entry when the effect body
	// writes one of its own dependencies.
	running atomic.Bool

	// disposed indicates the effect has been disposed.
	disposed atomic.Bool
}

// CreateEffect creates and immediately runs a new effect.
// If an Owner is installed for the current goroutine, the effect is
// registered with it and disposed alongside it.
func CreateEffect(fn func() Cleanup) *Effect {
	owner := CurrentOwner()

	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
	}

	if owner != nil {
		owner.registerEffect(e)
	}

	e.pending.Store(true)
	e.runLoop()

	return e
}

// MarkDirty schedules the effect to re-run.
// Implements the Listener interface.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}

	e.pending.Store(true)
	e.runLoop()
}

// ID returns the unique identifier for this effect.
// Implements the Listener interface.
func (e *Effect) ID() uint64 {
	return e.id
}

// runLoop drains the pending flag, re-running the effect until its body
// stops dirtying its own dependencies. Only one goroutine holds the
// loop at a time; the holder rechecks pending after releasing it, so a
// MarkDirty that loses the acquire race is never lost.
func (e *Effect) runLoop() {
	for e.pending.Load() {
		if !e.running.CompareAndSwap(false, true) {
			// The current holder rechecks pending after releasing.
			return
		}
		for e.pending.CompareAndSwap(true, false) {
			e.run()
		}
		e.running.Store(false)
	}
}

// run executes the effect function once, rebuilding its dependency set.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	// Unsubscribe from old sources; reads during this run re-subscribe.
	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	oldListener := setCurrentListener(e)
	e.cleanup = e.fn()
	setCurrentListener(oldListener)
}

// addSource records a dependency.
// Called by signals when they are read during effect execution.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// Dispose stops the effect, runs its cleanup, and unsubscribes from all
// sources. A disposed effect never runs again.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// OnDispose registers fn to run when the current owner is disposed.
// If no owner is installed, fn is discarded.
func OnDispose(fn func()) {
	if owner := CurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}
