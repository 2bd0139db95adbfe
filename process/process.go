// Package process implements the image loader, syscall dispatcher,
// process lifecycle manager, and exception entry point: the running
// user-process model, wired through the Kernel Context (package
// kernel) and the two vm.AddressSpace strategies (vm.PageTable,
// invpt.DemandPaged).
//
// Grounded on no single teacher file. biscuit has no COFF-loading,
// single-threaded-user-process core (its processes are native
// multi-threaded Go-rewrite processes with a full POSIX surface), so
// Process's shape is built fresh, in the ambient idioms established by
// the adapted vm/mem/tinfo/accnt packages (explicit mutex-guarded
// structs, Err_t returns, no panics except on kernel-fatal invariant
// violations).
package process

import (
	"sync"

	"github.com/ImperishableMe/Nachos/accnt"
	"github.com/ImperishableMe/Nachos/coff"
	"github.com/ImperishableMe/Nachos/defs"
	"github.com/ImperishableMe/Nachos/machine"
	"github.com/ImperishableMe/Nachos/tinfo"
	"github.com/ImperishableMe/Nachos/vm"
)

/// Process is a running (or finished) user process.
type Process struct {
	mu sync.Mutex

	Pid      defs.Pid_t
	Img      coff.Executable
	AS       vm.AddressSpace
	Copier   *vm.Copier
	NumPages uint32

	Argc      uint32
	ArgvAddr  uint32
	InitialPC uint32
	InitialSP uint32
	Regs      machine.Registers

	/// Parent is a weak back-reference, cleared by killProcess when the
	/// parent dies.
	Parent   *Process
	Children []*Process

	Console machine.Console
	TLB     machine.TLB // only set when the kernel is configured for paging

	IsFinished     bool
	ExitStatus     int32
	NormallyExited bool
	Joined         bool
	/// JoinWaiter is the thread handle of whichever parent is mid-join
	/// on this process, set just before that parent sleeps.
	JoinWaiter machine.KThread

	/// Thread is this process's own kernel-side thread handle, forked
	/// by execute and finished by killProcess.
	Thread machine.KThread
	Note   *tinfo.Tnote_t
	Acc    *accnt.Accnt_t

	startNs int64
}

/// InitRegisters zeroes the register file and sets PC/SP/A0/A1.
func (p *Process) InitRegisters() {
	p.Regs = machine.Registers{
		PC: p.InitialPC,
		SP: p.InitialSP,
		A0: p.Argc,
		A1: p.ArgvAddr,
	}
}

/// snapshot returns a consistent read of the fields killProcess/join
/// need, under the process's own lock.
func (p *Process) snapshot() (finished bool, status int32, normal bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.IsFinished, p.ExitStatus, p.NormallyExited
}
