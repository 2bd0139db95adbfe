package process

import (
	"time"

	"github.com/ImperishableMe/Nachos/accnt"
	"github.com/ImperishableMe/Nachos/defs"
	"github.com/ImperishableMe/Nachos/invpt"
	"github.com/ImperishableMe/Nachos/kernel"
	"github.com/ImperishableMe/Nachos/tinfo"
	"github.com/ImperishableMe/Nachos/ustr"
	"github.com/ImperishableMe/Nachos/vm"
)

/// Execute is the process lifecycle manager's creation path: admits
/// the new process against the process-table capacity limit, assigns
/// a pid (electing it root if none exists yet), loads
/// the named executable, initializes registers, bumps the alive count,
/// and forks the process's own kernel thread. All of it fails cleanly
/// with an Err_t; nothing is left partially constructed on failure.
func (mgr *Manager) Execute(name ustr.Ustr, args []ustr.Ustr) (*Process, defs.Err_t) {
	if !mgr.Ctx.Limits.Sysprocs.Take() {
		return nil, -defs.ENOMEM
	}

	mgr.Ctx.Disable()
	pid := mgr.Ctx.NextPid()
	mgr.Ctx.ElectRoot(pid)
	mgr.Ctx.Restore()

	p := &Process{
		Pid:     pid,
		Console: mgr.NewConsole(),
		Note:    tinfo.MkTnote(),
		Acc:     &accnt.Accnt_t{},
		startNs: time.Now().UnixNano(),
	}

	if err := mgr.load(p, name, args); err != 0 {
		mgr.Ctx.Limits.Sysprocs.Give()
		return nil, err
	}
	p.InitRegisters()

	mgr.Ctx.Disable()
	mgr.Ctx.IncAlive()
	mgr.Ctx.Restore()

	mgr.Threads.Put(p.Pid, p.Note)

	if mgr.NewThread != nil {
		p.Thread = mgr.NewThread()
	}
	if mgr.Run != nil {
		go mgr.Run(p)
	}
	return p, 0
}

/// KillProcess is the single teardown chokepoint: disowns children,
/// marks the process finished, folds its CPU-time usage into its
/// parent, closes its console (when the Console implementation has a
/// Close method), releases its frames, returns its process-table
/// slot, wakes a parent
/// mid-join, and, if this was the last live process, lets the
/// kernel's Terminated channel fire before finishing this process's
/// own thread.
func (mgr *Manager) KillProcess(p *Process, status int32, normallyExited bool) {
	mgr.Ctx.Disable()

	p.mu.Lock()
	for _, c := range p.Children {
		c.mu.Lock()
		c.Parent = nil
		c.mu.Unlock()
	}
	p.IsFinished = true
	p.ExitStatus = status
	p.NormallyExited = normallyExited
	joined := p.Joined
	waiter := p.JoinWaiter
	parent := p.Parent
	p.mu.Unlock()

	p.Acc.Finish(int(p.startNs))
	if parent != nil {
		parent.Acc.Add(p.Acc)
	}

	if closer, ok := p.Console.(interface{ Close() }); ok {
		closer.Close()
	}

	mgr.unloadSections(p)

	p.Note.MarkDead()
	mgr.Threads.Del(p.Pid)
	mgr.Ctx.Limits.Sysprocs.Give()

	if joined && waiter != nil {
		waiter.Wake()
	}

	reachedZero := mgr.Ctx.DecAlive()
	mgr.Ctx.Restore()

	mgr.Ctx.Stats.Exits.Inc()
	if reachedZero {
		mgr.Ctx.Debug.Log(kernel.DebugLifecycle, "pid %d was the last live process; kernel terminates", p.Pid)
	}

	if p.Thread != nil {
		p.Thread.Finish()
	}
}

/// unloadSections returns every frame the process owns to the pool
/// and closes the underlying COFF file.
func (mgr *Manager) unloadSections(p *Process) {
	switch as := p.AS.(type) {
	case *vm.PageTable:
		as.UnloadSections()
	case *invpt.DemandPaged:
		as.Unmap()
	}
	if p.Img != nil {
		p.Img.Close()
	}
}
