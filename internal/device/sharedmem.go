package device

import (
	"fmt"
	"sync"
)

// SharedMem is a word-addressed host view of a device-visible memory region.
// The compiler writes it only during Prepare; emitted command streams
// reference it by device address.
type SharedMem struct {
	base uint64

	mu    sync.Mutex
	words []uint32
}

func NewSharedMem(base uint64, sizeWords int) *SharedMem {
	return &SharedMem{base: base, words: make([]uint32, sizeWords)}
}

// Base is the device address of word zero.
func (m *SharedMem) Base() uint64 { return m.base }

// Addr returns the device address of the word at the given offset.
func (m *SharedMem) Addr(wordOffset int) uint64 {
	return m.base + uint64(wordOffset)*4
}

func (m *SharedMem) WriteWord(wordOffset int, value uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if wordOffset < 0 || wordOffset >= len(m.words) {
		return fmt.Errorf("device: shared mem write out of range: word %d of %d", wordOffset, len(m.words))
	}
	m.words[wordOffset] = value
	return nil
}

func (m *SharedMem) ReadWord(wordOffset int) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if wordOffset < 0 || wordOffset >= len(m.words) {
		return 0, fmt.Errorf("device: shared mem read out of range: word %d of %d", wordOffset, len(m.words))
	}
	return m.words[wordOffset], nil
}
