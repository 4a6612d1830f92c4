// Package statekit provides the public API for the statekit reactive
// state toolkit.
//
// This is the recommended import for most applications:
//
//	import "github.com/statekit-dev/statekit"
//
// Usage:
//
//	count := statekit.NewSignal(0)
//	statekit.CreateEffect(func() statekit.Cleanup {
//	    fmt.Println("count is", count.Get())
//	    return nil
//	})
//	count.Set(1)
//
// Two styles of state management live side by side. The signal store
// (NewSignal, NewMemo, CreateEffect) holds mutable values with
// explicit subscriptions; the hooks packages layer slot-based
// UseState/UseEffect on top of the same owner tree. The fetch package
// builds the {loading, data, error} resource lifecycle on either.
package statekit

import (
	"github.com/statekit-dev/statekit/pkg/fetch"
	"github.com/statekit-dev/statekit/pkg/state"
)

// =============================================================================
// Signals
// =============================================================================

// Signal type aliases.
type Signal[T any] = state.Signal[T]
type Memo[T any] = state.Memo[T]
type Effect = state.Effect
type Owner = state.Owner
type Listener = state.Listener

// Cleanup is returned by effect functions to undo their work before
// the next run or on dispose.
type Cleanup = state.Cleanup

// NewSignal creates a reactive signal with the given initial value.
//
// Example:
//
//	count := statekit.NewSignal(0)
//	count.Set(count.Peek() + 1)
func NewSignal[T any](initial T) *Signal[T] {
	return state.NewSignal(initial)
}

// NewMemo creates a computed value that tracks its dependencies and
// recomputes lazily when they change.
func NewMemo[T any](compute func() T) *Memo[T] {
	return state.NewMemo(compute)
}

// CreateEffect registers a side effect that reruns when any signal it
// read changes.
var CreateEffect = state.CreateEffect

// Batch coalesces signal writes so observers run once at the end.
var Batch = state.Batch

// Untracked runs fn without dependency tracking.
var Untracked = state.Untracked

// UntrackedGet reads a signal without registering a dependency.
func UntrackedGet[T any](s *Signal[T]) T {
	return state.UntrackedGet(s)
}

// NewOwner creates an ownership scope for effects and cleanups.
var NewOwner = state.NewOwner

// Root creates a detached owner, runs fn under it, and returns the
// owner with its dispose function.
var Root = state.Root

// OnDispose registers a cleanup with the current owner.
var OnDispose = state.OnDispose

// =============================================================================
// Fetching
// =============================================================================

// FetchState is a snapshot of a fetcher's {loading, data, error} triple.
type FetchState = fetch.FetchState

// Fetcher fetches JSON resources relative to a base address.
type Fetcher = fetch.Fetcher

// FetchOption configures a Fetcher.
type FetchOption = fetch.Option

// NewFetcher creates a Fetcher for the given base address.
//
// Example:
//
//	f := statekit.NewFetcher("https://test.com/")
//	<-f.Fetch("resource")
//	fmt.Println(f.State().Data)
var NewFetcher = fetch.NewFetcher

// Resource type aliases.
type Resource[T any] = fetch.Resource[T]
type ResourceState = fetch.ResourceState

// NewResource creates a typed resource and starts its first load.
func NewResource[T any](fetcher func() (T, error)) *Resource[T] {
	return fetch.NewResource(fetcher)
}

// NewKeyedResource reloads whenever the tracked key changes.
func NewKeyedResource[K comparable, T any](key func() K, fetcher func(K) (T, error)) *Resource[T] {
	return fetch.NewKeyedResource(key, fetcher)
}
