package cp

import (
	"math/bits"

	"github.com/mveld/ringctl/internal/cmdbuf"
)

// Fixed word counts per emit helper. Components sum these to bound a stream
// before writing begins; the totals must track the emit helpers exactly.
const (
	WordsWaitForIdle     = 1
	WordsWaitForMe       = 1
	WordsInvalidateState = 1
	WordsRegisterWrite   = 2
	WordsEventWrite      = 2
	WordsIdentifier      = 2
	WordsIndirectBuffer  = 4
	WordsTableUpdate     = 5
	WordsWaitRegMem      = 7
	WordsMemWriteHeader  = 3 // header + address low/high; payload words add on
)

func oddParity(v uint32) uint32 {
	return uint32(bits.OnesCount32(v) & 1)
}

// Type7Header encodes an opcode packet header carrying count payload words.
func Type7Header(op Opcode, count int) uint32 {
	c := uint32(count) & 0x3FFF
	o := uint32(op) & 0x7F
	return 0x70000000 | c | oddParity(c)<<15 | o<<16 | oddParity(o)<<23
}

// Type4Header encodes a register-write packet header for count words written
// starting at reg.
func Type4Header(reg uint32, count int) uint32 {
	c := uint32(count) & 0x7F
	r := reg & 0x3FFFF
	return 0x40000000 | c | oddParity(c)<<7 | r<<8 | oddParity(r)<<27
}

// NopPacket is the single-word no-op the indirect-stall scratch region holds.
func NopPacket() uint32 {
	return Type7Header(OpNop, 0)
}

func addrSplit(addr uint64) (lo, hi uint32) {
	return uint32(addr), uint32(addr >> 32)
}

// EmitNop appends a no-op packet carrying the given payload words.
func EmitNop(b *cmdbuf.Buffer, payload ...uint32) int {
	pkt := append([]uint32{Type7Header(OpNop, len(payload))}, payload...)
	return b.Append(pkt...)
}

// EmitWaitForIdle appends an idle barrier: execution holds until all prior
// work has completed.
func EmitWaitForIdle(b *cmdbuf.Buffer) int {
	return b.Append(Type7Header(OpWaitForIdle, 0))
}

// EmitWaitForMe appends a front-end drain barrier: the fetch stage empties
// before any later packet is decoded.
func EmitWaitForMe(b *cmdbuf.Buffer) int {
	return b.Append(Type7Header(OpWaitForMe, 0))
}

// EmitRegisterWrite appends a type-4 write of value to a single register.
func EmitRegisterWrite(b *cmdbuf.Buffer, reg, value uint32) int {
	return b.Append(Type4Header(reg, 1), value)
}

// EmitMemWrite appends a write of values to device-visible memory at addr.
func EmitMemWrite(b *cmdbuf.Buffer, addr uint64, values ...uint32) int {
	lo, hi := addrSplit(addr)
	pkt := append([]uint32{Type7Header(OpMemWrite, 2+len(values)), lo, hi}, values...)
	return b.Append(pkt...)
}

// EmitIndirectBuffer appends a prefetch-end indirect reference to sizeWords
// of commands at addr. The front-end stalls until the referenced buffer has
// executed.
func EmitIndirectBuffer(b *cmdbuf.Buffer, addr uint64, sizeWords uint32) int {
	lo, hi := addrSplit(addr)
	return b.Append(Type7Header(OpIndirectBufferPfe, 3), lo, hi, sizeWords)
}

// EmitEventWrite appends an event-write packet for the given event code.
func EmitEventWrite(b *cmdbuf.Buffer, event uint32) int {
	return b.Append(Type7Header(OpEventWrite, 1), event)
}

// EmitTableUpdate appends the atomic address-space commit: the device swaps
// its live root table, context tag and translation bank in one packet and
// flushes translation caches itself.
func EmitTableUpdate(b *cmdbuf.Buffer, root uint64, tag, bank uint32) int {
	lo, hi := addrSplit(root)
	return b.Append(Type7Header(OpTableUpdate, 4), lo, hi, tag, bank)
}

// EmitInvalidateState appends a device-wide cached-base-pointer invalidate.
func EmitInvalidateState(b *cmdbuf.Buffer) int {
	return b.Append(Type7Header(OpInvalidateState, 0))
}

// EmitIdentifier appends a trace-correlation marker as a one-word nop
// payload.
func EmitIdentifier(b *cmdbuf.Buffer, marker uint32) int {
	return EmitNop(b, marker)
}

// WaitRegMem describes a blocking device-side poll of a register until
// (value & Mask) == Reference.
type WaitRegMem struct {
	PollFlags uint32 // poll source and compare function
	Reg       uint32
	Reference uint32
	Mask      uint32
	Interval  uint32 // retry delay in device cycles
}

// PollRegisterEqual is the PollFlags value for an equality poll of a
// register.
const PollRegisterEqual uint32 = 0x3

// EmitWaitRegMem appends a blocking wait-on-register/memory poll. The device
// itself blocks in-stream; the host is never involved.
func EmitWaitRegMem(b *cmdbuf.Buffer, w WaitRegMem) int {
	return b.Append(
		Type7Header(OpWaitRegMem, 6),
		w.PollFlags,
		w.Reg,
		0x0, // upper poll address, unused for register polls
		w.Reference,
		w.Mask,
		w.Interval,
	)
}
