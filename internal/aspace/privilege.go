package aspace

import (
	"github.com/mveld/ringctl/internal/cmdbuf"
	"github.com/mveld/ringctl/internal/cp"
	"github.com/mveld/ringctl/internal/device"
)

// MaxPrivilegeToggleWords bounds one toggle; devices with native privilege
// control emit zero.
const MaxPrivilegeToggleWords = IdleBarrierWords + DrainBarrierWords + cp.WordsRegisterWrite

// EmitPrivilegeToggle appends the commands that raise or lower execution
// privilege. The idle and drain barriers make the new privilege level
// observable before any later packet decodes. Callers must pair every raise
// with a lower inside the same stream; the orchestrator guarantees this by
// construction.
func EmitPrivilegeToggle(b *cmdbuf.Buffer, caps device.Capabilities, raise bool) int {
	if caps.NativePrivilegeControl {
		return 0
	}
	n := EmitIdleBarrier(b)
	n += EmitDrainBarrier(b)
	bit := uint32(0)
	if raise {
		bit = 1
	}
	n += cp.EmitRegisterWrite(b, device.RegCPPrivilegeCtrl, bit)
	return n
}
