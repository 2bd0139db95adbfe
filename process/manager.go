package process

import (
	"github.com/ImperishableMe/Nachos/coff"
	"github.com/ImperishableMe/Nachos/defs"
	"github.com/ImperishableMe/Nachos/kernel"
	"github.com/ImperishableMe/Nachos/machine"
	"github.com/ImperishableMe/Nachos/mem"
	"github.com/ImperishableMe/Nachos/tinfo"
)

/// Manager is the process lifecycle manager: it holds the Kernel
/// Context and the external collaborators out of this package's
/// scope (the simulated processor's memory/TLB/console, the
/// scheduler's thread fork, and the host filesystem used to open an
/// executable), all consumed via interfaces or injected functions so
/// this package never depends on a concrete simulator.
type Manager struct {
	Ctx *kernel.Context
	Mem machine.Memory
	/// Threads is a live-process registry keyed by pid, populated in
	/// Execute and cleared in KillProcess, purely for Debug-channel
	/// introspection.
	Threads tinfo.Threadinfo_t

	/// NewConsole builds a fresh Console for a newly created process.
	NewConsole func() machine.Console
	/// NewTLB builds a fresh TLB for a newly created process; only
	/// called when Ctx.Config.Paging.
	NewTLB func() machine.TLB
	/// NewThread forks the scheduler thread handle bound to a new
	/// process.
	NewThread func() machine.KThread
	/// OpenCOFF opens and parses the named executable. The host
	/// filesystem is an external collaborator, so this defaults to
	/// coff.Open but is an injectable field for tests.
	OpenCOFF func(name string) (coff.Executable, defs.Err_t)
	/// Halt stops the simulated processor; must never return.
	Halt machine.Halt
	/// Run is invoked (in its own goroutine) once execute has finished
	/// setting up a process, standing in for the external scheduler
	/// actually beginning to execute user instructions at InitialPC.
	/// May be nil in tests that drive HandleException directly.
	Run func(*Process)
}

/// NewManager builds a Manager with OpenCOFF defaulted to coff.Open.
func NewManager(ctx *kernel.Context, mm machine.Memory) *Manager {
	mgr := &Manager{
		Ctx: ctx,
		Mem: mm,
		OpenCOFF: func(name string) (coff.Executable, defs.Err_t) {
			return coff.Open(name, mem.PGSIZE)
		},
	}
	mgr.Threads.Init()
	return mgr
}
