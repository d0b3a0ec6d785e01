package cmdbuf

import (
	"errors"
	"fmt"
)

var (
	ErrOverflow  = errors.New("cmdbuf: capacity exceeded")
	ErrExhausted = errors.New("cmdbuf: scratch pool exhausted")
)

// Buffer is an append-only run of command words over fixed-capacity scratch
// storage. Overflow is sticky: once an append does not fit, the buffer drops
// all further writes and reports ErrOverflow until Reset. A stream that
// overflowed is never partially usable.
type Buffer struct {
	words      []uint32
	overflowed bool
}

// New returns a builder over freshly allocated scratch of the given capacity.
func New(capacity int) *Buffer {
	return &Buffer{words: make([]uint32, 0, capacity)}
}

// Wrap returns a builder over caller-owned scratch storage. The builder
// appends starting at index zero; existing contents are discarded.
func Wrap(scratch []uint32) *Buffer {
	return &Buffer{words: scratch[:0]}
}

// Append queues words at the current cursor and returns the number of words
// accepted. A write that would exceed capacity is dropped whole.
func (b *Buffer) Append(words ...uint32) int {
	if b.overflowed {
		return 0
	}
	if len(b.words)+len(words) > cap(b.words) {
		b.overflowed = true
		return 0
	}
	b.words = append(b.words, words...)
	return len(words)
}

// Len reports the number of words written so far.
func (b *Buffer) Len() int { return len(b.words) }

// Cap reports the fixed capacity of the underlying scratch.
func (b *Buffer) Cap() int { return cap(b.words) }

// Remaining reports how many words still fit.
func (b *Buffer) Remaining() int { return cap(b.words) - len(b.words) }

// Err returns ErrOverflow once any append has been dropped.
func (b *Buffer) Err() error {
	if b.overflowed {
		return fmt.Errorf("%w: cap=%d", ErrOverflow, cap(b.words))
	}
	return nil
}

// Words exposes the composed stream for submission. The slice aliases the
// scratch storage and must not be retained past submission.
func (b *Buffer) Words() []uint32 { return b.words }

// Reset rewinds the cursor and clears the overflow latch.
func (b *Buffer) Reset() {
	b.words = b.words[:0]
	b.overflowed = false
}

// Pool hands out fixed-capacity scratch buffers for in-flight command
// streams. Exhaustion is a caller-visible resource error, not a block.
type Pool struct {
	free chan *Buffer
	cap  int
}

// NewPool creates a pool of count scratch buffers, each capacity words long.
func NewPool(count, capacity int) *Pool {
	p := &Pool{free: make(chan *Buffer, count), cap: capacity}
	for i := 0; i < count; i++ {
		p.free <- New(capacity)
	}
	return p
}

// Acquire takes a reset buffer from the pool, or ErrExhausted when every
// buffer is attached to an in-flight stream.
func (p *Pool) Acquire() (*Buffer, error) {
	select {
	case b := <-p.free:
		b.Reset()
		return b, nil
	default:
		return nil, ErrExhausted
	}
}

// Release returns a buffer to the pool. Releasing a buffer the pool did not
// hand out corrupts accounting; callers pair every Acquire with one Release.
func (p *Pool) Release(b *Buffer) {
	if b == nil || b.Cap() != p.cap {
		return
	}
	select {
	case p.free <- b:
	default:
	}
}

// BufferCap reports the per-buffer capacity in words.
func (p *Pool) BufferCap() int { return p.cap }
