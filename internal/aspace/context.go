package aspace

import (
	"github.com/mveld/ringctl/internal/cmdbuf"
	"github.com/mveld/ringctl/internal/cp"
)

// LogicalContext is an optional execution-context identifier. The zero value
// is the reserved global context and encodes as identifier zero on the wire.
type LogicalContext struct {
	ID    uint32
	Valid bool
}

// Context wraps an identifier as a non-null logical context.
func Context(id uint32) LogicalContext {
	return LogicalContext{ID: id, Valid: true}
}

// GlobalContext is the reserved default context.
var GlobalContext = LogicalContext{}

// Encoded is the wire value written to memstore.
func (lc LogicalContext) Encoded() uint32 {
	if !lc.Valid {
		return 0
	}
	return lc.ID
}

// ContextWriteWords is the exact size of one context-identifier write.
const ContextWriteWords = cp.WordsIdentifier +
	2*(cp.WordsMemWriteHeader+1) + // per-queue and global identifier writes
	cp.WordsEventWrite // cache invalidate

// EmitContextWrite appends the commands that record the active logical
// context: a trace-correlation marker, the identifier into the per-queue and
// global memstore slots, and a read-cache invalidate so other clients
// observe the new identifier promptly. Runs once per switch request whether
// or not the address space changed.
func EmitContextWrite(b *cmdbuf.Buffer, queueAddr, globalAddr uint64, lc LogicalContext) int {
	id := lc.Encoded()
	n := cp.EmitIdentifier(b, cp.StreamIdentifierContext)
	n += cp.EmitMemWrite(b, queueAddr, id)
	n += cp.EmitMemWrite(b, globalAddr, id)
	n += cp.EmitEventWrite(b, cp.EventCacheInvalidate)
	return n
}
