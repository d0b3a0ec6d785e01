// Package memstore fixes the layout of the host-visible mirror region.
//
// The region is written only by emitted device commands; the host reads it
// through external diagnostic tooling. This package computes addresses, it
// never touches memory.
//
// Layout, in order: one slot per queue, one reserved global slot, then one
// pagetable-mirror record per queue.
package memstore

// Slot field offsets, in bytes.
const (
	// OffsetCurrentContext holds the logical-context identifier last
	// recorded for the slot's owner.
	OffsetCurrentContext = 0x08

	// SlotSize is the per-owner slot stride.
	SlotSize = 0x40
)

// Pagetable-mirror record geometry: root low, root high, context tag.
const (
	PagetableRecordWords = 3
	pagetableRecordSize  = 0x10
)

// Layout computes device addresses inside the mirror region.
type Layout struct {
	base       uint64
	queueSlots int
}

func NewLayout(base uint64, queueSlots int) Layout {
	return Layout{base: base, queueSlots: queueSlots}
}

func (l Layout) Base() uint64 { return l.base }

// QueueContextAddr is where a queue's recorded context identifier lives.
func (l Layout) QueueContextAddr(queueID uint32) uint64 {
	return l.base + uint64(queueID)*SlotSize + OffsetCurrentContext
}

// GlobalContextAddr is the process-global recorded context identifier,
// stored in the reserved slot after all queue slots.
func (l Layout) GlobalContextAddr() uint64 {
	return l.base + uint64(l.queueSlots)*SlotSize + OffsetCurrentContext
}

// PagetableMirrorAddr is where a queue's switch sequence mirrors the
// (root-low, root-high, tag) triple it just committed.
func (l Layout) PagetableMirrorAddr(queueID uint32) uint64 {
	mirrorBase := l.base + uint64(l.queueSlots+1)*SlotSize
	return mirrorBase + uint64(queueID)*pagetableRecordSize
}

// Size is the total region footprint in bytes.
func (l Layout) Size() uint64 {
	return uint64(l.queueSlots+1)*SlotSize + uint64(l.queueSlots)*pagetableRecordSize
}
