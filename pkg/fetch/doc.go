// Package fetch implements asynchronous resource fetching with reactive
// {loading, data, error} state.
//
// Fetcher is the untyped core: constructed with a fixed base address,
// its Fetch(path) operation issues a GET to base+path, decodes the JSON
// body, and records the outcome in three signals. Errors are captured
// as state, never returned past the operation boundary. Overlapping
// Fetch calls race; the last request to complete wins, with no
// cancellation or sequencing between them.
//
// Resource is the typed companion: a generic async value with a
// Pending/Loading/Ready/Failed state machine and optional keyed
// re-fetching when a tracked key changes.
package fetch
