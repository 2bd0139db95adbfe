package process

import (
	"github.com/ImperishableMe/Nachos/mem"
	"github.com/ImperishableMe/Nachos/ustr"
)

/// Syscall numbers, fixed by the user ABI. create/open/close/unlink
/// exist in the ABI but have no handler in this core: a process
/// invoking them hits the unknown-number case below and is killed,
/// exactly like any other unimplemented number.
const (
	SysHalt = 0
	SysExit = 1
	SysExec = 2
	SysJoin = 3
	SysRead = 6
	SysWrite = 7
)

/// instrSize is the fixed MIPS instruction width the dispatcher
/// advances PC by after every syscall.
const instrSize uint32 = 4

/// maxNameLen bounds the C-strings read for exec's filename and argv
/// entries (max 256 bytes).
const maxNameLen = 256

/// coffSuffix is the required executable-filename suffix.
const coffSuffix = ".coff"

/// Dispatch decodes v0 and a0..a3 from p's registers, invokes the
/// matching handler, writes the
/// handler's return value to v0, and advances PC by one instruction.
/// After exit, v0 and PC are left untouched: by the time sysExit
/// returns, KillProcess has torn the process down and finished its
/// thread, so the user program never resumes.
func (mgr *Manager) Dispatch(p *Process) {
	mgr.Ctx.Stats.Syscalls.Inc()

	num := p.Regs.V0
	a0, a1, a2 := p.Regs.A0, p.Regs.A1, p.Regs.A2

	switch num {
	case SysHalt:
		p.Regs.V0 = uint32(mgr.sysHalt(p))
	case SysExit:
		mgr.sysExit(p, int32(a0))
		return
	case SysExec:
		p.Regs.V0 = uint32(mgr.sysExec(p, a0, a1, a2))
	case SysRead:
		p.Regs.V0 = uint32(mgr.sysRead(p, a0, a1, a2))
	case SysWrite:
		p.Regs.V0 = uint32(mgr.sysWrite(p, a0, a1, a2))
	case SysJoin:
		p.Regs.V0 = uint32(mgr.sysJoin(p, a0, a1))
	default:
		mgr.KillProcess(p, 2, false)
		return
	}
	p.Regs.PC += instrSize
}

/// sysHalt implements halt(): only the root process may stop the
/// simulator, and a successful halt never returns.
func (mgr *Manager) sysHalt(p *Process) int32 {
	mgr.Ctx.Disable()
	isRoot := mgr.Ctx.IsRoot(p.Pid)
	mgr.Ctx.Restore()
	if !isRoot {
		return 1
	}
	if mgr.Halt != nil {
		mgr.Halt()
	}
	panic("process: halt returned")
}

/// sysExit implements exit(): tears the process down through the
/// single killProcess chokepoint with normallyExited=true.
func (mgr *Manager) sysExit(p *Process, status int32) {
	mgr.KillProcess(p, status, true)
}

/// sysExec implements exec(nameVaddr, argc, argvVaddr): reads the
/// filename and argv strings out of the caller's address space,
/// constructs and executes a child process, and links it into the
/// caller's children on success. Any failure (bad filename suffix, bad
/// user pointers, load failure) returns -1 and leaves the caller
/// unaffected.
func (mgr *Manager) sysExec(p *Process, nameVaddr, argc, argvVaddr uint32) int32 {
	name, ok := p.Copier.ReadCString(nameVaddr, maxNameLen)
	if !ok || !name.HasSuffix(coffSuffix) {
		return -1
	}

	args := make([]ustr.Ustr, 0, argc)
	for i := uint32(0); i < argc; i++ {
		ptrBuf := make([]byte, 4)
		if n := p.Copier.ReadFromUser(argvVaddr+4*i, ptrBuf, 0, 4); n != 4 {
			return -1
		}
		strVaddr := uint32(ptrBuf[0]) | uint32(ptrBuf[1])<<8 | uint32(ptrBuf[2])<<16 | uint32(ptrBuf[3])<<24
		s, ok := p.Copier.ReadCString(strVaddr, maxNameLen)
		if !ok {
			s = ustr.MkUstr()
		}
		args = append(args, s)
	}

	child, err := mgr.Execute(name, args)
	if err != 0 {
		return -1
	}

	mgr.Ctx.Disable()
	child.mu.Lock()
	child.Parent = p
	child.mu.Unlock()
	mgr.Ctx.Restore()

	p.mu.Lock()
	p.Children = append(p.Children, child)
	p.mu.Unlock()

	return int32(child.Pid)
}

/// sysJoin implements join(childPid, statusVaddr): waits for the named
/// child to finish (sleeping if necessary), writes its
/// exit status to user memory, and disowns it from the children list.
func (mgr *Manager) sysJoin(p *Process, childPid, statusVaddr uint32) int32 {
	mgr.Ctx.Disable()
	p.mu.Lock()
	var child *Process
	idx := -1
	for i, c := range p.Children {
		if uint32(c.Pid) == childPid {
			child, idx = c, i
			break
		}
	}
	if child == nil {
		p.mu.Unlock()
		mgr.Ctx.Restore()
		return -1
	}

	child.mu.Lock()
	finished := child.IsFinished
	if !finished {
		child.Joined = true
		child.JoinWaiter = p.Thread
	}
	child.mu.Unlock()
	p.mu.Unlock()
	mgr.Ctx.Restore()

	if !finished && p.Thread != nil {
		p.Thread.Sleep()
		mgr.restoreState(p)
	}

	_, status, normal := child.snapshot()

	buf := []byte{
		byte(status), byte(status >> 8), byte(status >> 16), byte(status >> 24),
	}
	p.Copier.WriteToUser(statusVaddr, buf, 0, 4)

	p.mu.Lock()
	p.Children = append(p.Children[:idx], p.Children[idx+1:]...)
	p.mu.Unlock()

	if normal {
		return 1
	}
	return 0
}

/// sysRead implements read(fd, bufVaddr, count): only fd 0 (stdin) is
/// valid. Bytes are read from the console (blocking)
/// into a kernel buffer, then written to user memory; the return value
/// is the number of bytes the user-memory write placed: every byte
/// read, or -1 on a bad user pointer (WriteToUser never writes part of
/// a range).
func (mgr *Manager) sysRead(p *Process, fd, bufVaddr, count uint32) int32 {
	if fd != 0 || int32(count) < 0 {
		return -1
	}
	if bufVaddr >= p.NumPages*mem.PGSIZE {
		return -1
	}
	buf := make([]byte, count)
	n, _ := p.Console.ReadStdin(buf)
	if n < 0 {
		return -1
	}
	written := p.Copier.WriteToUser(bufVaddr, buf, 0, n)
	return int32(written)
}

/// sysWrite implements write(fd, bufVaddr, count): only fd 1 (stdout)
/// is valid. This returns 0 on success rather than the byte count
/// delivered, a deliberately preserved ABI quirk kept for compatibility
/// with existing user programs rather than a bug to fix.
func (mgr *Manager) sysWrite(p *Process, fd, bufVaddr, count uint32) int32 {
	if fd != 1 || int32(count) < 0 {
		return -1
	}
	if bufVaddr >= p.NumPages*mem.PGSIZE {
		return -1
	}
	buf := make([]byte, count)
	n := p.Copier.ReadFromUser(bufVaddr, buf, 0, int(count))
	if n < 0 {
		return -1
	}
	if _, err := p.Console.WriteStdout(buf[:n]); err != nil {
		return -1
	}
	return 0
}
