// Package cp encodes command-processor packets.
//
// Ownership boundary:
// - opcode enumeration and packet header encoding
//
// - per-operation emit helpers over a cmdbuf.Buffer
//
// - stream disassembly for diagnostics
//
// Two packet classes exist: type-4 packets write a run of registers, type-7
// packets carry an opcode plus payload. Both headers embed odd-parity bits so
// the front-end can reject corrupted fetches. Emit helpers append whole
// packets only; a packet that does not fit is dropped entirely and latches
// the buffer's overflow error.
//
// cp does not submit, order, or re-read streams. Sequential correctness of a
// composed stream is owned by package aspace.
package cp
