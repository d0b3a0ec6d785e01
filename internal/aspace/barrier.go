package aspace

import (
	"github.com/mveld/ringctl/internal/cmdbuf"
	"github.com/mveld/ringctl/internal/cp"
	"github.com/mveld/ringctl/internal/device"
)

// Fixed word counts for the barrier helpers.
const (
	IdleBarrierWords   = cp.WordsWaitForIdle
	DrainBarrierWords  = cp.WordsWaitForMe
	IndirectStallWords = cp.WordsWaitForMe + cp.WordsIndirectBuffer + cp.WordsWaitForIdle
)

// EmitIdleBarrier appends a wait for all previously issued work to finish.
func EmitIdleBarrier(b *cmdbuf.Buffer) int {
	return cp.EmitWaitForIdle(b)
}

// EmitDrainBarrier appends a front-end drain: the fetch stage empties before
// later packets decode, independent of execution completion.
func EmitDrainBarrier(b *cmdbuf.Buffer) int {
	return cp.EmitWaitForMe(b)
}

// EmitIndirectStall appends a zero-effect indirect reference into the
// pre-initialized no-op scratch at nopAddr. The prefetch unit cannot follow
// an indirect reference speculatively, so it stalls until everything before
// the reference has executed. A drain ahead of the reference and an idle
// wait after it close both ends of the window.
func EmitIndirectStall(b *cmdbuf.Buffer, nopAddr uint64) int {
	n := cp.EmitWaitForMe(b)
	n += cp.EmitIndirectBuffer(b, nopAddr, device.SetstateNopSizeWords)
	n += cp.EmitWaitForIdle(b)
	return n
}
