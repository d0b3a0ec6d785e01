package device

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mveld/ringctl/internal/memstore"
)

// Capabilities is the per-call snapshot of device feature and state flags.
// Components treat a snapshot as immutable for the duration of one compile.
type Capabilities struct {
	// NativePrivilegeControl devices manage the privilege bit in hardware;
	// explicit toggle packets are unnecessary and must not be emitted.
	NativePrivilegeControl bool
	// PerfcountersActive reports whether a profiling session holds the
	// counters. When false, a switch brackets the table update with a
	// counter reset.
	PerfcountersActive bool
	// FaultInProgress reports that recovery owns the device; compiled work
	// would be discarded at reset.
	FaultInProgress bool
}

// AddressSpace is an opaque handle to one device translation context.
// Handles compare by identity: two handles over identical register values
// are still distinct address spaces.
type AddressSpace struct {
	root uint64 // root table base
	tag  uint32 // context tag programmed alongside the root
	bank uint32 // translation-unit client bank
}

func NewAddressSpace(root uint64, tag, bank uint32) *AddressSpace {
	return &AddressSpace{root: root, tag: tag, bank: bank}
}

// Registers returns the values the table-update packet programs.
func (as *AddressSpace) Registers() (root uint64, tag, bank uint32) {
	return as.root, as.tag, as.bank
}

// Queue is one command-submission ring. ActiveAddressSpace is shared mutable
// state: the compiler reads it, only the completion collaborator writes it.
// A stale read costs a redundant switch, never a wrong one.
type Queue struct {
	ID uint32

	mu     sync.RWMutex
	active *AddressSpace
}

func NewQueue(id uint32) *Queue {
	return &Queue{ID: id}
}

// ActiveAddressSpace returns the address space last confirmed by completion
// handling, or nil when the queue has never executed a context.
func (q *Queue) ActiveAddressSpace() *AddressSpace {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.active
}

// SetActiveAddressSpace records a confirmed switch. Owned by the completion
// collaborator; the compiler never calls it.
func (q *Queue) SetActiveAddressSpace(as *AddressSpace) {
	q.mu.Lock()
	q.active = as
	q.mu.Unlock()
}

// Config fixes a device's immutable identity at construction.
type Config struct {
	Name                   string
	NativePrivilegeControl bool
	PerfcountersActive     bool
	QueueCount             int
	MemstoreBase           uint64
	SetstateBase           uint64
}

// Device aggregates capability flags, the process-global default address
// space, the memstore layout and the setstate scratch region.
type Device struct {
	name  string
	caps  Capabilities
	fault atomic.Bool

	defaultAS *AddressSpace
	queues    []*Queue
	layout    memstore.Layout
	setstate  *SharedMem
}

// DefaultAddressSpaceRegisters is the reserved global translation context a
// queue runs in before any switch.
const (
	DefaultRoot uint64 = 0x0000_0001_0000_0000
	DefaultTag  uint32 = 0
	DefaultBank uint32 = 0
)

func New(cfg Config) (*Device, error) {
	if cfg.QueueCount <= 0 {
		return nil, fmt.Errorf("device: queue count must be positive, got %d", cfg.QueueCount)
	}
	d := &Device{
		name: cfg.Name,
		caps: Capabilities{
			NativePrivilegeControl: cfg.NativePrivilegeControl,
			PerfcountersActive:     cfg.PerfcountersActive,
		},
		defaultAS: NewAddressSpace(DefaultRoot, DefaultTag, DefaultBank),
		layout:    memstore.NewLayout(cfg.MemstoreBase, cfg.QueueCount),
		setstate:  NewSharedMem(cfg.SetstateBase, SetstateWords),
	}
	d.queues = make([]*Queue, cfg.QueueCount)
	for i := range d.queues {
		d.queues[i] = NewQueue(uint32(i))
	}
	return d, nil
}

func (d *Device) Name() string { return d.name }

// Capabilities snapshots the flag set once; FaultInProgress folds in the
// live fault latch at snapshot time.
func (d *Device) Capabilities() Capabilities {
	caps := d.caps
	caps.FaultInProgress = d.fault.Load()
	return caps
}

// SetFault latches or clears fault-in-progress. Owned by recovery handling.
func (d *Device) SetFault(v bool) { d.fault.Store(v) }

// DefaultAddressSpace is the translation context queues start in.
func (d *Device) DefaultAddressSpace() *AddressSpace { return d.defaultAS }

// Queue returns the ring with the given id.
func (d *Device) Queue(id uint32) (*Queue, error) {
	if int(id) >= len(d.queues) {
		return nil, fmt.Errorf("device: no queue %d (have %d)", id, len(d.queues))
	}
	return d.queues[id], nil
}

func (d *Device) Queues() []*Queue { return d.queues }

// Memstore exposes the host-visible mirror layout.
func (d *Device) Memstore() memstore.Layout { return d.layout }

// Setstate exposes the permanently allocated scratch region the indirect
// stall references.
func (d *Device) Setstate() *SharedMem { return d.setstate }
