package process

import (
	"github.com/ImperishableMe/Nachos/defs"
	"github.com/ImperishableMe/Nachos/kernel"
)

/// Exception causes the simulated processor reports to the kernel: a
/// syscall trap, a software-managed TLB miss, or anything else
/// (illegal instruction, bus error, a write to a read-only page, an
/// address-translation failure past a TLB hit), which is
/// process-fatal.
const (
	CauseSyscall = iota
	CauseTLBMiss
	CauseOther
)

/// tlbFaulter is implemented only by the demand-paged address-space
/// strategy (invpt.DemandPaged); the basic (resident) vm.PageTable has
/// no TLB to refill, so a TLB miss against it is impossible by
/// construction and is routed to CauseOther instead.
type tlbFaulter interface {
	HandleTLBMiss(vaddr uint32) defs.Err_t
}

/// tlbRestorer is implemented only by the demand-paged address-space
/// strategy: its TLB is a per-pid cache that must be invalidated the
/// moment this process's thread is rescheduled onto the CPU after
/// having been switched out, since whatever slots it held may since
/// have been repurposed. The basic (resident) vm.PageTable has no TLB
/// and needs no such contract.
type tlbRestorer interface {
	RestoreState()
}

/// restoreState invalidates p's TLB, if its address-space strategy
/// carries one, as part of bringing p back onto the CPU.
func (mgr *Manager) restoreState(p *Process) {
	if r, ok := p.AS.(tlbRestorer); ok {
		r.RestoreState()
	}
}

/// HandleException classifies the trap and routes it to the syscall
/// dispatcher, the TLB fault handler, or process-fatal teardown. Every
/// branch is total: there is no "control falls off the end" case.
func (mgr *Manager) HandleException(p *Process, cause int, faultVaddr uint32) {
	switch cause {
	case CauseSyscall:
		mgr.Dispatch(p)
	case CauseTLBMiss:
		mgr.handleTLBMiss(p, faultVaddr)
	default:
		mgr.KillProcess(p, 2, false)
	}
}

/// handleTLBMiss services a TLB miss through the address space's
/// fault handler, if it has one; a miss serviced successfully lets
/// the faulting instruction simply re-execute. A fault handler
/// failure (eviction impossible, COFF read failure, bad vaddr) is
/// process-fatal.
func (mgr *Manager) handleTLBMiss(p *Process, faultVaddr uint32) {
	mgr.Ctx.Stats.TLBMisses.Inc()

	faulter, ok := p.AS.(tlbFaulter)
	if !ok {
		mgr.KillProcess(p, 2, false)
		return
	}
	if err := faulter.HandleTLBMiss(faultVaddr); err != 0 {
		mgr.Ctx.Debug.Log(kernel.DebugVM, "pid %d: TLB miss fault-in failed: %v", p.Pid, err)
		mgr.KillProcess(p, 2, false)
	}
}
