package hooks

import (
	"reflect"
	"sync"

	"github.com/statekit-dev/statekit/internal/errkit"
	"github.com/statekit-dev/statekit/pkg/state"
)

// slotKind identifies the hook type occupying a slot, for order validation.
type slotKind string

const (
	kindState  slotKind = "UseState"
	kindMemo   slotKind = "UseMemo"
	kindEffect slotKind = "UseEffect"
)

// slot is one hook call site's persistent storage.
type slot struct {
	kind  slotKind
	value any
}

// slotStore holds the hook slots for one owner across renders.
type slotStore struct {
	slots       []*slot
	renderCount int
	idx         int
}

// next claims the slot for the current hook call, validating order.
func (st *slotStore) next(kind slotKind) *slot {
	if st.renderCount == 0 {
		s := &slot{kind: kind}
		st.slots = append(st.slots, s)
		st.idx++
		return s
	}

	if st.idx >= len(st.slots) {
		panic(errkit.New("E002").WithDetail("%s called at slot %d, first render had %d hooks", kind, st.idx, len(st.slots)))
	}
	s := st.slots[st.idx]
	if s.kind != kind {
		panic(errkit.New("E002").WithDetail("slot %d was %s on first render, now %s", st.idx, s.kind, kind))
	}
	st.idx++
	return s
}

// stores maps each owner to its slot store. Keyed per owner (not via
// owner context values, which are inherited by children and would leak
// a parent's slots into nested renders). Entries are removed when the
// owner is disposed.
var stores sync.Map // map[*state.Owner]*slotStore

// storeFor returns the slot store for an owner, creating it on first use.
func storeFor(owner *state.Owner) *slotStore {
	if v, ok := stores.Load(owner); ok {
		return v.(*slotStore)
	}
	st := &slotStore{}
	actual, loaded := stores.LoadOrStore(owner, st)
	if loaded {
		return actual.(*slotStore)
	}
	owner.OnCleanup(func() {
		stores.Delete(owner)
	})
	return st
}

// frame is the per-render context for one Render call.
type frame struct {
	owner *state.Owner
	store *slotStore

	// afterRender holds effect closures to run once rendering finished,
	// mirroring the run-effects-after-render phase of the render loop.
	afterRender []func()

	// prev is the enclosing frame when components render nested components.
	prev *frame
}

// frames holds the active render frame per goroutine.
var frames = newFrameRegistry()

// Render executes a component function with hook-slot tracking and
// returns its output. Effects queued by UseEffect run after fn returns.
// Nested Render calls (sub-components with their own owners) are
// supported.
func Render[T any](owner *state.Owner, fn func() T) T {
	store := storeFor(owner)
	store.idx = 0

	f := &frame{owner: owner, store: store, prev: frames.current()}
	frames.set(f)
	defer frames.set(f.prev)

	out := fn()
	store.renderCount++

	for _, run := range f.afterRender {
		run()
	}
	f.afterRender = nil

	return out
}

// current returns the active frame, panicking with a coded error when a
// hook is called outside Render.
func current() *frame {
	f := frames.current()
	if f == nil {
		panic(errkit.New("E001"))
	}
	return f
}

// UseState returns a getter and setter backed by a signal with stable
// identity across renders. The getter is a tracked read; the setter may
// be called from any goroutine (event handlers, fetch completions).
func UseState[T any](initial T) (func() T, func(T)) {
	f := current()
	s := f.store.next(kindState)

	if s.value == nil {
		s.value = state.NewSignal(initial)
	}
	sig, ok := s.value.(*state.Signal[T])
	if !ok {
		panic(errkit.New("E003").WithDetail("UseState[%T]", initial))
	}
	return sig.Get, sig.Set
}

// memoSlot is the persistent state for one UseMemo call site.
type memoSlot struct {
	deps  []any
	value any
	has   bool
}

// UseMemo returns a value recomputed only when deps change.
// With no deps, the value is computed once on mount.
func UseMemo[T any](compute func() T, deps ...any) T {
	f := current()
	s := f.store.next(kindMemo)

	if s.value == nil {
		s.value = &memoSlot{}
	}
	ms := s.value.(*memoSlot)

	if !ms.has || !depsEqual(ms.deps, deps) {
		ms.value = compute()
		ms.deps = deps
		ms.has = true
	}

	v, ok := ms.value.(T)
	if !ok {
		panic(errkit.New("E003").WithDetail("UseMemo value is %T", ms.value))
	}
	return v
}

// effectSlot is the persistent state for one UseEffect call site.
type effectSlot struct {
	deps    []any
	cleanup state.Cleanup
	hasRun  bool
}

// UseEffect queues fn to run after the render completes, when deps
// changed since the previous render. With no deps, fn runs only on the
// first render (mount). fn may return a Cleanup, which runs before the
// next execution and when the owner is disposed.
func UseEffect(fn func() state.Cleanup, deps ...any) {
	f := current()
	s := f.store.next(kindEffect)

	if s.value == nil {
		es := &effectSlot{}
		s.value = es
		// Final cleanup when the owning scope goes away.
		f.owner.OnCleanup(func() {
			if es.cleanup != nil {
				es.cleanup()
				es.cleanup = nil
			}
		})
	}
	es := s.value.(*effectSlot)

	f.afterRender = append(f.afterRender, func() {
		if es.hasRun && (len(deps) == 0 || depsEqual(es.deps, deps)) {
			return
		}
		if es.cleanup != nil {
			es.cleanup()
			es.cleanup = nil
		}
		es.cleanup = fn()
		es.deps = deps
		es.hasRun = true
	})
}

// depsEqual reports whether two dependency lists are shallowly equal.
func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
