// Package submit defines the submission boundary for composed command
// streams.
//
// Ownership boundary:
// - the Submitter contract and its flag set
//
// - an in-memory Recorder standing in for queue hardware
//
// Retry, timeout and completion policy live behind the Submitter; the
// compiler propagates failures as-is.
package submit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/mveld/ringctl/internal/device"
)

var (
	ErrQueueFull         = errors.New("submit: ring has no space for the stream")
	ErrDeviceUnavailable = errors.New("submit: device not accepting work")
)

// Flags qualify how a stream is enqueued.
type Flags uint32

const (
	// FlagProtectedMode runs the stream with restricted-register access
	// open. Address-space switches require it; context writes must not
	// carry it.
	FlagProtectedMode Flags = 1 << 0
)

// Token identifies an accepted submission for completion tracking.
type Token uint64

// Submission is one finished stream bound for a queue. AddressSpace is the
// translation context the stream commits, nil when the stream leaves the
// address space untouched.
type Submission struct {
	Queue        *device.Queue
	Words        []uint32
	Flags        Flags
	AddressSpace *device.AddressSpace
}

// Submitter accepts finished streams. Implementations own enqueueing,
// execution and completion bookkeeping.
type Submitter interface {
	Submit(ctx context.Context, s Submission) (Token, error)
}

// Recorder is an in-memory Submitter for tests, the CLI and the bring-up
// daemon. It "executes" instantly: an accepted switch submission updates the
// queue's active address space the way real completion handling would.
type Recorder struct {
	mu       sync.Mutex
	accepted []Submission
	failNext error

	next atomic.Uint64
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Submit(_ context.Context, s Submission) (Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return 0, err
	}

	// Streams alias caller scratch; keep an owned copy.
	words := make([]uint32, len(s.Words))
	copy(words, s.Words)
	s.Words = words
	r.accepted = append(r.accepted, s)

	if s.AddressSpace != nil && s.Queue != nil {
		s.Queue.SetActiveAddressSpace(s.AddressSpace)
	}
	return Token(r.next.Add(1)), nil
}

// FailNext makes the next Submit return err without recording.
func (r *Recorder) FailNext(err error) {
	r.mu.Lock()
	r.failNext = err
	r.mu.Unlock()
}

// Accepted returns copies of every recorded submission in order.
func (r *Recorder) Accepted() []Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Submission, len(r.accepted))
	copy(out, r.accepted)
	return out
}

// Calls reports how many submissions were accepted.
func (r *Recorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accepted)
}
