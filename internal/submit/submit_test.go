package submit

import (
	"context"
	"errors"
	"testing"

	"github.com/mveld/ringctl/internal/device"
)

func TestRecorderCompletesSwitchSubmissions(t *testing.T) {
	q := device.NewQueue(0)
	as := device.NewAddressSpace(0x2000, 9, 1)
	r := NewRecorder()

	tok, err := r.Submit(context.Background(), Submission{
		Queue:        q,
		Words:        []uint32{1, 2, 3},
		Flags:        FlagProtectedMode,
		AddressSpace: as,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if tok == 0 {
		t.Fatalf("zero token for accepted submission")
	}
	if q.ActiveAddressSpace() != as {
		t.Fatalf("completion did not update active address space")
	}
}

func TestRecorderLeavesQueueUntouchedForContextWrites(t *testing.T) {
	q := device.NewQueue(1)
	r := NewRecorder()
	if _, err := r.Submit(context.Background(), Submission{Queue: q, Words: []uint32{7}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if q.ActiveAddressSpace() != nil {
		t.Fatalf("context-write submission changed the active address space")
	}
}

func TestRecorderCopiesCallerScratch(t *testing.T) {
	r := NewRecorder()
	scratch := []uint32{10, 20}
	if _, err := r.Submit(context.Background(), Submission{Words: scratch}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	scratch[0] = 99
	if got := r.Accepted()[0].Words[0]; got != 10 {
		t.Fatalf("recorded stream aliases scratch: %d", got)
	}
}

func TestRecorderFailNextInjectsOnce(t *testing.T) {
	r := NewRecorder()
	r.FailNext(ErrQueueFull)
	if _, err := r.Submit(context.Background(), Submission{}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if r.Calls() != 0 {
		t.Fatalf("failed submission was recorded")
	}
	if _, err := r.Submit(context.Background(), Submission{}); err != nil {
		t.Fatalf("second submit should succeed: %v", err)
	}
}
