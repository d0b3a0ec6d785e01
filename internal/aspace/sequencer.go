package aspace

import (
	"github.com/mveld/ringctl/internal/cmdbuf"
	"github.com/mveld/ringctl/internal/cp"
	"github.com/mveld/ringctl/internal/device"
	"github.com/mveld/ringctl/internal/memstore"
)

// MaxSequenceWords bounds the address-space switch sequence with the
// counter-reset bracket included.
const MaxSequenceWords = IdleBarrierWords + DrainBarrierWords +
	cp.WordsRegisterWrite + // counter-reset initiate
	cp.WordsTableUpdate +
	cp.WordsMemWriteHeader + memstore.PagetableRecordWords + // mirror write
	DrainBarrierWords + IdleBarrierWords +
	cp.WordsWaitRegMem // counter-reset poll

// EmitAddressSpaceSwitch appends the sequence that commits target as the
// live translation context and mirrors the committed values to mirrorAddr.
//
// Order is the correctness argument and is fixed: barriers ahead of the
// commit retire anything still referencing the stale translation; the
// counter bracket exists because resetting while the table changes under
// live counters yields undefined translation results; barriers after the
// mirror write release both the commit and the mirror before any dependent
// packet executes.
func EmitAddressSpaceSwitch(b *cmdbuf.Buffer, caps device.Capabilities, target *device.AddressSpace, mirrorAddr uint64) int {
	root, tag, bank := target.Registers()

	n := EmitIdleBarrier(b)
	n += EmitDrainBarrier(b)

	if !caps.PerfcountersActive {
		n += cp.EmitRegisterWrite(b, device.RegPerfctrSramInitCmd, 0x1)
	}

	// Single-packet atomic commit point.
	n += cp.EmitTableUpdate(b, root, tag, bank)

	// Diagnostic mirror of exactly what was committed; never read back by
	// the compiler.
	n += cp.EmitMemWrite(b, mirrorAddr, uint32(root), uint32(root>>32), tag)

	n += EmitDrainBarrier(b)
	n += EmitIdleBarrier(b)

	if !caps.PerfcountersActive {
		n += cp.EmitWaitRegMem(b, cp.WaitRegMem{
			PollFlags: cp.PollRegisterEqual,
			Reg:       device.RegPerfctrSramInitStatus,
			Reference: device.PerfctrResetDone,
			Mask:      0x1,
			Interval:  0x0,
		})
	}
	return n
}
