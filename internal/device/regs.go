package device

// Register numbers programmed through type-4 packets. The set is small on
// purpose: the compiler touches exactly these.
const (
	// RegCPPrivilegeCtrl raises (1) or lowers (0) command-stream privilege
	// on devices without native privilege control.
	RegCPPrivilegeCtrl uint32 = 0x0840

	// RegPerfctrSramInitCmd initiates a performance-counter SRAM reset when
	// written with 1.
	RegPerfctrSramInitCmd uint32 = 0x0511

	// RegPerfctrSramInitStatus reads 1 once the counter reset has landed.
	RegPerfctrSramInitStatus uint32 = 0x0512
)

// PerfctrResetDone is the status pattern a switch polls for after
// initiating a counter reset.
const PerfctrResetDone uint32 = 0x1

// Setstate region geometry. The region is permanently allocated; the first
// word holds the no-op packet the indirect stall references.
const (
	SetstateWords     = 16
	SetstateNopOffset = 0
	// SetstateNopSizeWords is the indirect-reference length: the no-op word
	// plus one word of pad the front-end may prefetch past it.
	SetstateNopSizeWords uint32 = 2
)
