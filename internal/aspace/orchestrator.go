package aspace

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/mveld/ringctl/internal/cmdbuf"
	"github.com/mveld/ringctl/internal/cp"
	"github.com/mveld/ringctl/internal/device"
	"github.com/mveld/ringctl/internal/observability"
	"github.com/mveld/ringctl/internal/submit"
)

var (
	ErrNotPrepared = errors.New("aspace: Prepare has not run")
	// ErrScratchTooSmall reports a configuration where the worst-case
	// switch cannot fit the fixed scratch capacity. A component sizing
	// defect, never a degradable condition.
	ErrScratchTooSmall = errors.New("aspace: scratch capacity below worst-case switch size")
)

// Scratch geometry. One page-equivalent buffer per in-flight switch; the
// context write uses a small inline buffer of its own.
const (
	ScratchWords        = 1024
	contextScratchWords = 16
)

// MaxSwitchWords is the worst case for one address-space switch stream.
const MaxSwitchWords = 2*MaxPrivilegeToggleWords +
	IndirectStallWords +
	MaxSequenceWords +
	cp.WordsInvalidateState

// Switcher is the public entry point: it compiles and submits the streams
// that move a queue onto a target address space and record the active
// logical context.
type Switcher struct {
	dev      *device.Device
	sub      submit.Submitter
	pool     *cmdbuf.Pool
	prepared atomic.Bool
}

// NewSwitcher builds a Switcher over the device and submission service.
// inflight fixes how many switches may hold scratch at once.
func NewSwitcher(dev *device.Device, sub submit.Submitter, inflight int) *Switcher {
	if inflight < 1 {
		inflight = 1
	}
	return &Switcher{
		dev:  dev,
		sub:  sub,
		pool: cmdbuf.NewPool(inflight, ScratchWords),
	}
}

// Prepare writes the single no-op packet the indirect stall references into
// the permanently allocated setstate scratch. Must run before any Switch;
// repeated calls rewrite the same word.
func (s *Switcher) Prepare() error {
	if err := s.dev.Setstate().WriteWord(device.SetstateNopOffset, cp.NopPacket()); err != nil {
		return fmt.Errorf("aspace: prepare setstate: %w", err)
	}
	s.prepared.Store(true)
	return nil
}

// Switch transitions queue onto target and records lc as the active logical
// context. The address-space stream is compiled and submitted only when
// target differs from the queue's current address space; the context write
// always runs. The returned token identifies the context-write submission.
//
// With a device fault in progress the call is a recognized no-op: recovery
// owns the device and anything submitted now would be discarded at reset,
// so neither stream is compiled and the call reports success.
func (s *Switcher) Switch(ctx context.Context, queue *device.Queue, target *device.AddressSpace, lc LogicalContext) (submit.Token, error) {
	if !s.prepared.Load() {
		return 0, ErrNotPrepared
	}
	caps := s.dev.Capabilities()
	if caps.FaultInProgress {
		log.Debug().Uint32("queue", queue.ID).Msg("switch skipped: fault in progress")
		return 0, nil
	}

	current := queue.ActiveAddressSpace()
	if current == nil {
		current = s.dev.DefaultAddressSpace()
	}

	if target != current {
		if err := s.switchAddressSpace(ctx, queue, caps, target); err != nil {
			return 0, err
		}
	}

	return s.writeContext(ctx, queue, lc, target != current)
}

func (s *Switcher) switchAddressSpace(ctx context.Context, queue *device.Queue, caps device.Capabilities, target *device.AddressSpace) error {
	buf, err := s.pool.Acquire()
	if err != nil {
		observability.RecordSwitchFailure(s.dev.Name(), "scratch")
		return fmt.Errorf("aspace: acquire switch scratch: %w", err)
	}
	defer s.pool.Release(buf)

	if MaxSwitchWords > buf.Cap() {
		return fmt.Errorf("%w: need %d words, have %d", ErrScratchTooSmall, MaxSwitchWords, buf.Cap())
	}

	EmitPrivilegeToggle(buf, caps, true)
	EmitIndirectStall(buf, s.dev.Setstate().Addr(device.SetstateNopOffset))
	EmitAddressSpaceSwitch(buf, caps, target, s.dev.Memstore().PagetableMirrorAddr(queue.ID))
	cp.EmitInvalidateState(buf)
	EmitPrivilegeToggle(buf, caps, false)

	// Sticky overflow here means a component lied about its size. Fatal to
	// the call; a truncated stream must never reach the device.
	if err := buf.Err(); err != nil {
		observability.RecordSwitchFailure(s.dev.Name(), "overflow")
		return fmt.Errorf("aspace: switch stream: %w", err)
	}

	if _, err := s.sub.Submit(ctx, submit.Submission{
		Queue:        queue,
		Words:        buf.Words(),
		Flags:        submit.FlagProtectedMode,
		AddressSpace: target,
	}); err != nil {
		observability.RecordSwitchFailure(s.dev.Name(), "submit")
		return fmt.Errorf("aspace: submit switch: %w", err)
	}

	root, tag, bank := target.Registers()
	log.Info().
		Uint32("queue", queue.ID).
		Uint64("root", root).
		Uint32("tag", tag).
		Uint32("bank", bank).
		Int("words", buf.Len()).
		Msg("address space switch submitted")
	observability.RecordSwitchCompiled(s.dev.Name(), "aspace", buf.Len())
	return nil
}

func (s *Switcher) writeContext(ctx context.Context, queue *device.Queue, lc LogicalContext, changed bool) (submit.Token, error) {
	layout := s.dev.Memstore()
	buf := cmdbuf.New(contextScratchWords)
	EmitContextWrite(buf, layout.QueueContextAddr(queue.ID), layout.GlobalContextAddr(), lc)
	if err := buf.Err(); err != nil {
		observability.RecordSwitchFailure(s.dev.Name(), "overflow")
		return 0, fmt.Errorf("aspace: context stream: %w", err)
	}

	tok, err := s.sub.Submit(ctx, submit.Submission{Queue: queue, Words: buf.Words()})
	if err != nil {
		observability.RecordSwitchFailure(s.dev.Name(), "submit")
		return 0, fmt.Errorf("aspace: submit context write: %w", err)
	}

	log.Debug().
		Uint32("queue", queue.ID).
		Uint32("context", lc.Encoded()).
		Bool("aspace_changed", changed).
		Msg("context identifier recorded")
	observability.RecordSwitchCompiled(s.dev.Name(), "context", buf.Len())
	return tok, nil
}
