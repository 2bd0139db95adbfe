// Package kernel holds the Kernel Context and the ambient
// logging/config stack around it. Grounded on biscuit's convention of
// a handful of package-level globals (Numcpus, Physmem, Thefs, ...)
// threaded implicitly everywhere they're needed, generalized here into
// one explicit struct passed by reference: kernel.Context collects the
// per-boot globals this kernel needs (alive, totalCreated, rootProcess,
// freePool, invertedTable) into fields instead.
package kernel

/// Config is the kernel's static configuration, read once at boot and
/// never mutated afterward.
type Config struct {
	/// NumPhysPages sizes the Physical Frame Pool.
	NumPhysPages uint32
	/// StackPages is the fixed per-process stack allocation.
	StackPages uint32
	/// MaxProcs bounds the process table, enforced via
	/// limits.Syslimit_t.
	MaxProcs int64
	/// ConsoleBufSize sizes the stdin/stdout ring buffers backing
	/// machine.Console.
	ConsoleBufSize int
	/// Paging selects the demand-paged address-space strategy
	/// (invpt.DemandPaged) over the basic resident one (vm.PageTable).
	Paging bool
	/// TLBSlots sizes the simulated TLB; only meaningful when Paging.
	TLBSlots int
}

/// DefaultConfig returns reasonable defaults for a standalone run or a
/// test, matching the classic Nachos defaults (8 stack pages, a small
/// fixed process table).
func DefaultConfig() Config {
	return Config{
		NumPhysPages:   64,
		StackPages:     8,
		MaxProcs:       10,
		ConsoleBufSize: 256,
		Paging:         false,
		TLBSlots:       4,
	}
}
