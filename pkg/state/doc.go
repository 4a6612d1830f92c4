// Package state implements a mutable reactive store built on signals.
//
// A Signal is a thread-safe value container. Reading a signal inside a
// tracked context (an Effect run or a Memo computation) subscribes the
// current listener, so the listener re-runs when the value changes.
// Consumers that prefer explicit wiring over implicit tracking can
// register plain observers with Subscribe.
//
// Ownership is explicit: signals, memos and effects created under an
// Owner are torn down when that Owner is disposed. Shared state is an
// explicitly constructed value passed by reference to its consumers;
// the package deliberately provides no module-level singletons.
//
// Example:
//
//	count := state.NewSignal(0)
//	state.CreateEffect(func() state.Cleanup {
//	    fmt.Println("count is", count.Get())
//	    return nil
//	})
//	count.Set(1) // effect re-runs
package state
