package cmdbuf

import (
	"errors"
	"testing"
)

func TestAppendTracksCursorAndCapacity(t *testing.T) {
	b := New(8)
	if n := b.Append(1, 2, 3); n != 3 {
		t.Fatalf("append accepted %d words, want 3", n)
	}
	if b.Len() != 3 || b.Cap() != 8 || b.Remaining() != 5 {
		t.Fatalf("unexpected accounting: len=%d cap=%d remaining=%d", b.Len(), b.Cap(), b.Remaining())
	}
	if err := b.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := b.Words()
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("unexpected words: %v", got)
	}
}

func TestOverflowIsStickyAndDropsWholeWrite(t *testing.T) {
	b := New(4)
	b.Append(1, 2, 3)
	if n := b.Append(4, 5); n != 0 {
		t.Fatalf("oversized append accepted %d words, want 0", n)
	}
	if !errors.Is(b.Err(), ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", b.Err())
	}
	// A fitting write after overflow must still be dropped.
	if n := b.Append(6); n != 0 {
		t.Fatalf("append after overflow accepted %d words", n)
	}
	if b.Len() != 3 {
		t.Fatalf("overflow mutated contents: len=%d", b.Len())
	}
}

func TestResetClearsOverflowLatch(t *testing.T) {
	b := New(2)
	b.Append(1, 2, 3)
	if b.Err() == nil {
		t.Fatalf("expected overflow")
	}
	b.Reset()
	if b.Err() != nil || b.Len() != 0 {
		t.Fatalf("reset did not clear state: err=%v len=%d", b.Err(), b.Len())
	}
	if n := b.Append(7, 8); n != 2 {
		t.Fatalf("append after reset accepted %d words", n)
	}
}

func TestWrapUsesCallerScratch(t *testing.T) {
	scratch := make([]uint32, 16)
	b := Wrap(scratch)
	b.Append(0xDEAD, 0xBEEF)
	if scratch[0] != 0xDEAD || scratch[1] != 0xBEEF {
		t.Fatalf("wrap did not write caller scratch: %x %x", scratch[0], scratch[1])
	}
	if b.Cap() != 16 {
		t.Fatalf("unexpected cap: %d", b.Cap())
	}
}

func TestPoolExhaustionAndRelease(t *testing.T) {
	p := NewPool(2, 32)
	a, err := p.Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	bb, err := p.Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := p.Acquire(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	p.Release(a)
	c, err := p.Acquire()
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("pooled buffer not reset: len=%d", c.Len())
	}
	p.Release(bb)
	p.Release(c)
}

func TestPoolRejectsForeignBuffer(t *testing.T) {
	p := NewPool(1, 8)
	p.Release(New(4))
	a, err := p.Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if a.Cap() != 8 {
		t.Fatalf("foreign buffer entered pool: cap=%d", a.Cap())
	}
	if _, err := p.Acquire(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("pool size grew past count: %v", err)
	}
}
