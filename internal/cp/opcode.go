package cp

// Opcode identifies one type-7 command-processor operation. The set is
// closed: every opcode the compiler emits is enumerated here, and call sites
// go through the typed emit helpers rather than raw numeric headers.
type Opcode uint8

const (
	OpNop               Opcode = 0x10
	OpWaitForMe         Opcode = 0x13 // front-end drain
	OpWaitForIdle       Opcode = 0x26
	OpInvalidateState   Opcode = 0x3B
	OpWaitRegMem        Opcode = 0x3C
	OpMemWrite          Opcode = 0x3D
	OpIndirectBufferPfe Opcode = 0x3F // prefetch-end indirect reference
	OpEventWrite        Opcode = 0x46
	OpTableUpdate       Opcode = 0x53 // atomic address-space commit
)

func (op Opcode) String() string {
	switch op {
	case OpNop:
		return "NOP"
	case OpWaitForMe:
		return "WAIT_FOR_ME"
	case OpWaitForIdle:
		return "WAIT_FOR_IDLE"
	case OpInvalidateState:
		return "INVALIDATE_STATE"
	case OpWaitRegMem:
		return "WAIT_REG_MEM"
	case OpMemWrite:
		return "MEM_WRITE"
	case OpIndirectBufferPfe:
		return "INDIRECT_BUFFER_PFE"
	case OpEventWrite:
		return "EVENT_WRITE"
	case OpTableUpdate:
		return "TABLE_UPDATE"
	default:
		return "UNKNOWN"
	}
}

// Event codes carried by EVENT_WRITE packets.
const (
	EventCacheInvalidate uint32 = 0x31
)

// StreamIdentifierContext marks a context-identifier write in traces. The
// value is a recognizable sentinel, never interpreted by the device.
const StreamIdentifierContext uint32 = 0x2EADBEEF
