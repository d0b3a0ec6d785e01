// Package aspace compiles atomic address-space and context switches into
// command streams.
//
// Ownership boundary:
// - barrier emission (idle, front-end drain, indirect prefetch stall)
//
// - privilege raise/lower bracketing
//
// - the address-space switch sequence and its counter-reset bracket
//
// - context-identifier memstore writes
//
// - the switch orchestrator and its submission handoff
//
// Correctness here is ordering: the device executes streams asynchronously
// and prefetches ahead of in-order completion, so every barrier in this
// package sits where a stale-translation or stale-context hazard would
// otherwise exist. Reordering or eliding packets is never an optimization.
//
// Every emit helper has a statically known maximum word count, so a whole
// switch is boundable before the first word is written. aspace owns no
// concurrency; it runs on the caller's goroutine and treats the queue's
// active address space as read-only shared state.
package aspace
