package fetch

import (
	"sync"

	"github.com/statekit-dev/statekit/pkg/state"
)

// ResourceState represents the current state of a Resource.
type ResourceState int

const (
	Pending ResourceState = iota // before the first fetch settles
	Loading                      // fetch in progress
	Ready                        // data successfully loaded
	Failed                       // fetch failed
)

// String returns a human-readable name for the state.
func (s ResourceState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resource manages a typed asynchronous value with reactive state.
// Unlike the raw Fetcher, overlapping loads are guarded by a generation
// counter: a load that finishes after a newer one started is discarded.
type Resource[T any] struct {
	fetcher func() (T, error)

	st   *state.Signal[ResourceState]
	data *state.Signal[T]
	err  *state.Signal[error]

	// gen identifies the newest load; stale completions are ignored.
	gen uint64
	mu  sync.Mutex

	onSuccess func(T)
	onError   func(error)
}

// NewResource creates a Resource and triggers the first load.
func NewResource[T any](fetcher func() (T, error)) *Resource[T] {
	r := &Resource[T]{
		fetcher: fetcher,
		st:      state.NewSignal(Pending),
		data:    state.NewSignal(*new(T)),
		err:     state.NewSignal[error](nil),
	}
	r.Refetch()
	return r
}

// NewKeyedResource creates a Resource that re-fetches whenever the
// tracked key changes. The key function runs inside an effect, so any
// signals it reads become dependencies.
func NewKeyedResource[K comparable, T any](key func() K, fetcher func(K) (T, error)) *Resource[T] {
	r := &Resource[T]{
		st:   state.NewSignal(Pending),
		data: state.NewSignal(*new(T)),
		err:  state.NewSignal[error](nil),
	}
	r.fetcher = func() (T, error) {
		return fetcher(key())
	}

	state.CreateEffect(func() state.Cleanup {
		key() // establish the dependency
		r.Refetch()
		return nil
	})

	return r
}

// State returns the current resource state (tracked read).
func (r *Resource[T]) State() ResourceState {
	return r.st.Get()
}

// IsLoading reports whether a load is outstanding or the resource has
// never settled.
func (r *Resource[T]) IsLoading() bool {
	s := r.st.Get()
	return s == Loading || s == Pending
}

// IsReady reports whether data is available.
func (r *Resource[T]) IsReady() bool {
	return r.st.Get() == Ready
}

// IsFailed reports whether the last load failed.
func (r *Resource[T]) IsFailed() bool {
	return r.st.Get() == Failed
}

// Data returns the current value (tracked read).
func (r *Resource[T]) Data() T {
	return r.data.Get()
}

// DataOr returns the current value, or fallback when not Ready.
func (r *Resource[T]) DataOr(fallback T) T {
	if r.IsReady() {
		return r.data.Get()
	}
	return fallback
}

// Err returns the last load error (tracked read).
func (r *Resource[T]) Err() error {
	return r.err.Get()
}

// OnSuccess registers a callback for successful loads.
func (r *Resource[T]) OnSuccess(fn func(T)) *Resource[T] {
	r.mu.Lock()
	r.onSuccess = fn
	r.mu.Unlock()
	return r
}

// OnError registers a callback for failed loads.
func (r *Resource[T]) OnError(fn func(error)) *Resource[T] {
	r.mu.Lock()
	r.onError = fn
	r.mu.Unlock()
	return r
}

// Refetch starts a new load. A load superseded by a newer Refetch
// discards its result instead of writing stale state.
func (r *Resource[T]) Refetch() {
	r.mu.Lock()
	r.gen++
	current := r.gen
	r.mu.Unlock()

	r.st.Set(Loading)
	r.err.Set(nil)

	go func() {
		result, err := r.fetcher()

		r.mu.Lock()
		stale := r.gen != current
		onSuccess := r.onSuccess
		onError := r.onError
		r.mu.Unlock()

		if stale {
			return
		}

		if err != nil {
			state.Batch(func() {
				r.err.Set(err)
				r.st.Set(Failed)
			})
			if onError != nil {
				onError(err)
			}
			return
		}

		state.Batch(func() {
			r.data.Set(result)
			r.st.Set(Ready)
		})
		if onSuccess != nil {
			onSuccess(result)
		}
	}()
}
