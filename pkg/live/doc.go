// Package live pushes re-rendered HTML fragments to connected browsers
// over WebSocket.
//
// A Hub fans one Broadcast out to every connected client. Demo pages
// subscribe to their state (signals or fetch state) and broadcast a
// fresh fragment on every change; the page swaps the fragment into the
// document. Slow clients are dropped rather than allowed to stall the
// broadcast path.
package live
