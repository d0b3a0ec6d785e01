// Package streamd owns the bring-up daemon around the switch compiler.
//
// Ownership boundary:
// - HTTP surface for driving switches against a simulated device
//
// - wiring the compiler to the in-memory submission recorder
//
// - health, queue inspection and metrics endpoints
//
// streamd exists for hardware bring-up and protocol inspection; it holds no
// compiler logic of its own.
package streamd
