package cp

import (
	"errors"
	"testing"

	"github.com/mveld/ringctl/internal/cmdbuf"
)

func TestType7HeaderEncodesOpcodeCountAndParity(t *testing.T) {
	hdr := Type7Header(OpMemWrite, 4)
	if hdr>>28 != 0x7 {
		t.Fatalf("not a type7 header: %#08x", hdr)
	}
	if Opcode(hdr>>16&0x7F) != OpMemWrite {
		t.Fatalf("opcode mangled: %#08x", hdr)
	}
	if hdr&0x3FFF != 4 {
		t.Fatalf("count mangled: %#08x", hdr)
	}
	// OpMemWrite = 0x3D has five set bits, so the opcode parity bit is set.
	if hdr>>23&1 != 1 {
		t.Fatalf("opcode parity wrong: %#08x", hdr)
	}
	// count 4 has one set bit.
	if hdr>>15&1 != 1 {
		t.Fatalf("count parity wrong: %#08x", hdr)
	}
}

func TestType4HeaderEncodesRegisterAndCount(t *testing.T) {
	hdr := Type4Header(0x0511, 1)
	if hdr>>28 != 0x4 {
		t.Fatalf("not a type4 header: %#08x", hdr)
	}
	if hdr>>8&0x3FFFF != 0x0511 {
		t.Fatalf("register mangled: %#08x", hdr)
	}
	if hdr&0x7F != 1 {
		t.Fatalf("count mangled: %#08x", hdr)
	}
}

func TestEmitHelpersMatchDeclaredWordCounts(t *testing.T) {
	cases := []struct {
		name string
		want int
		emit func(b *cmdbuf.Buffer) int
	}{
		{"wait_for_idle", WordsWaitForIdle, EmitWaitForIdle},
		{"wait_for_me", WordsWaitForMe, EmitWaitForMe},
		{"invalidate_state", WordsInvalidateState, EmitInvalidateState},
		{"register_write", WordsRegisterWrite, func(b *cmdbuf.Buffer) int { return EmitRegisterWrite(b, 0x0840, 1) }},
		{"event_write", WordsEventWrite, func(b *cmdbuf.Buffer) int { return EmitEventWrite(b, EventCacheInvalidate) }},
		{"identifier", WordsIdentifier, func(b *cmdbuf.Buffer) int { return EmitIdentifier(b, StreamIdentifierContext) }},
		{"indirect_buffer", WordsIndirectBuffer, func(b *cmdbuf.Buffer) int { return EmitIndirectBuffer(b, 0x4000_0000, 2) }},
		{"table_update", WordsTableUpdate, func(b *cmdbuf.Buffer) int { return EmitTableUpdate(b, 0x1_0000_2000, 9, 1) }},
		{"wait_reg_mem", WordsWaitRegMem, func(b *cmdbuf.Buffer) int {
			return EmitWaitRegMem(b, WaitRegMem{PollFlags: PollRegisterEqual, Reg: 0x0512, Reference: 1, Mask: 1})
		}},
		{"mem_write_3_values", WordsMemWriteHeader + 3, func(b *cmdbuf.Buffer) int { return EmitMemWrite(b, 0x8000_0000, 1, 2, 3) }},
	}
	for _, tc := range cases {
		b := cmdbuf.New(32)
		if got := tc.emit(b); got != tc.want {
			t.Fatalf("%s: emitted %d words, want %d", tc.name, got, tc.want)
		}
		if b.Len() != tc.want {
			t.Fatalf("%s: buffer holds %d words, want %d", tc.name, b.Len(), tc.want)
		}
		if err := b.Err(); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
	}
}

func TestEmitDropsWholePacketOnOverflow(t *testing.T) {
	b := cmdbuf.New(3)
	if n := EmitTableUpdate(b, 0x2000, 9, 1); n != 0 {
		t.Fatalf("partial packet accepted: %d words", n)
	}
	if !errors.Is(b.Err(), cmdbuf.ErrOverflow) {
		t.Fatalf("expected overflow, got %v", b.Err())
	}
	if b.Len() != 0 {
		t.Fatalf("packet split across overflow: len=%d", b.Len())
	}
}

func TestTableUpdateSplitsRootAcrossHalves(t *testing.T) {
	b := cmdbuf.New(8)
	EmitTableUpdate(b, 0x0000_0001_2000_3000, 0x2A, 5)
	w := b.Words()
	if w[1] != 0x2000_3000 || w[2] != 0x1 {
		t.Fatalf("root halves wrong: lo=%#x hi=%#x", w[1], w[2])
	}
	if w[3] != 0x2A || w[4] != 5 {
		t.Fatalf("tag/bank wrong: tag=%#x bank=%d", w[3], w[4])
	}
}

func TestDecodeRoundTripsEmittedStream(t *testing.T) {
	b := cmdbuf.New(64)
	EmitWaitForIdle(b)
	EmitRegisterWrite(b, 0x0840, 1)
	EmitMemWrite(b, 0xABCD_0000, 42)
	EmitEventWrite(b, EventCacheInvalidate)

	packets, err := Decode(b.Words())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(packets) != 4 {
		t.Fatalf("decoded %d packets, want 4", len(packets))
	}
	if packets[0].Op != OpWaitForIdle {
		t.Fatalf("packet 0: %s", packets[0])
	}
	if packets[1].Kind != KindType4 || packets[1].Reg != 0x0840 || packets[1].Payload[0] != 1 {
		t.Fatalf("packet 1: %s", packets[1])
	}
	if packets[2].Op != OpMemWrite || packets[2].Payload[0] != 0xABCD_0000 || packets[2].Payload[2] != 42 {
		t.Fatalf("packet 2: %s", packets[2])
	}
	if packets[3].Op != OpEventWrite || packets[3].Payload[0] != EventCacheInvalidate {
		t.Fatalf("packet 3: %s", packets[3])
	}
}

func TestDecodeTruncatedPacketFails(t *testing.T) {
	_, err := Decode([]uint32{Type7Header(OpMemWrite, 4), 0x1})
	if !errors.Is(err, ErrTruncatedPacket) {
		t.Fatalf("expected ErrTruncatedPacket, got %v", err)
	}
}

func TestDecodeRejectsUnknownHeaderClass(t *testing.T) {
	_, err := Decode([]uint32{0x12345678})
	if !errors.Is(err, ErrBadHeader) {
		t.Fatalf("expected ErrBadHeader, got %v", err)
	}
}

func TestNopPacketIsSelfContained(t *testing.T) {
	packets, err := Decode([]uint32{NopPacket()})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(packets) != 1 || packets[0].Op != OpNop || len(packets[0].Payload) != 0 {
		t.Fatalf("unexpected nop shape: %+v", packets)
	}
}
