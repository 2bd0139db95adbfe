package process

import (
	"testing"

	"github.com/ImperishableMe/Nachos/machine"
	"github.com/ImperishableMe/Nachos/mem"
	"github.com/ImperishableMe/Nachos/ustr"
)

type haltCalled struct{}

func TestSysHaltFromRootInvokesHalt(t *testing.T) {
	mgr := newTestManager(16, 2, 4)
	root, _ := mgr.Execute(ustr.Ustr("root.coff"), nil)
	mgr.Halt = func() { panic(haltCalled{}) }

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatalf("Dispatch(halt) from the root process never called Halt")
			} else if _, ok := r.(haltCalled); !ok {
				panic(r) // not ours, let it propagate
			}
		}()
		root.Regs.V0 = SysHalt
		mgr.Dispatch(root)
	}()
}

func TestSysHaltFromNonRootReturnsOne(t *testing.T) {
	mgr := newTestManager(16, 2, 4)
	root, _ := mgr.Execute(ustr.Ustr("root.coff"), nil)
	child, _ := mgr.Execute(ustr.Ustr("child.coff"), nil)
	_ = root
	mgr.Halt = func() { t.Fatalf("Halt called for a non-root process") }

	child.Regs.V0 = SysHalt
	mgr.Dispatch(child)
	if child.Regs.V0 != 1 {
		t.Fatalf("halt() from non-root returned v0=%d; want 1", child.Regs.V0)
	}
}

func TestSysWriteReturnsZeroOnSuccess(t *testing.T) {
	mgr := newTestManager(16, 2, 4)
	p, _ := mgr.Execute(ustr.Ustr("a.coff"), nil)

	msg := []byte("hi")
	if n := p.Copier.WriteToUser(0, msg, 0, len(msg)); n != len(msg) {
		t.Fatalf("setup: WriteToUser failed: %d", n)
	}

	p.Regs.V0 = SysWrite
	p.Regs.A0 = 1 // stdout
	p.Regs.A1 = 0
	p.Regs.A2 = uint32(len(msg))
	pcBefore := p.Regs.PC
	mgr.Dispatch(p)

	if p.Regs.V0 != 0 {
		t.Fatalf("write() returned v0=%d; want 0 regardless of bytes written (preserved ABI quirk)", p.Regs.V0)
	}
	if p.Regs.PC != pcBefore+instrSize {
		t.Fatalf("PC not advanced by one instruction after a syscall")
	}

	fc := p.Console.(*machine.FakeConsole)
	out := fc.DrainStdout()
	if string(out) != "hi" {
		t.Fatalf("stdout received %q; want %q", out, "hi")
	}
}

func TestSysReadDeliversBytesToUserMemory(t *testing.T) {
	mgr := newTestManager(16, 2, 4)
	p, _ := mgr.Execute(ustr.Ustr("a.coff"), nil)

	fc := p.Console.(*machine.FakeConsole)
	fc.FeedStdin([]byte("hey"))

	p.Regs.V0 = SysRead
	p.Regs.A0 = 0 // stdin
	p.Regs.A1 = 0 // bufVaddr
	p.Regs.A2 = 3 // count
	mgr.Dispatch(p)

	if p.Regs.V0 != 3 {
		t.Fatalf("read() returned v0=%d; want 3 bytes delivered", int32(p.Regs.V0))
	}
	buf := make([]byte, 3)
	if n := p.Copier.ReadFromUser(0, buf, 0, 3); n != 3 || string(buf) != "hey" {
		t.Fatalf("read() did not place %q into user memory: got %q (n=%d)", "hey", buf, n)
	}
}

func TestSysReadRejectsBadFd(t *testing.T) {
	mgr := newTestManager(16, 2, 4)
	p, _ := mgr.Execute(ustr.Ustr("a.coff"), nil)

	p.Regs.V0 = SysRead
	p.Regs.A0 = 1 // stdout is not readable
	p.Regs.A1 = 0
	p.Regs.A2 = 3
	mgr.Dispatch(p)
	if int32(p.Regs.V0) != -1 {
		t.Fatalf("read(fd=1) returned %d; want -1", int32(p.Regs.V0))
	}
}

func TestSysExecAndJoinNormalExit(t *testing.T) {
	mgr := newTestManager(64, 2, 8)
	parent, _ := mgr.Execute(ustr.Ustr("parent.coff"), nil)

	name := append([]byte("child.coff"), 0)
	nameVaddr := uint32(0)
	if n := parent.Copier.WriteToUser(nameVaddr, name, 0, len(name)); n != len(name) {
		t.Fatalf("setup: writing child name failed: %d", n)
	}

	parent.Regs.V0 = SysExec
	parent.Regs.A0 = nameVaddr
	parent.Regs.A1 = 0 // argc
	parent.Regs.A2 = 0 // argv (unused, argc==0)
	mgr.Dispatch(parent)

	childPid := parent.Regs.V0
	if int32(childPid) < 0 {
		t.Fatalf("exec() failed: v0=%d", int32(childPid))
	}

	parent.mu.Lock()
	var child *Process
	for _, c := range parent.Children {
		if uint32(c.Pid) == childPid {
			child = c
		}
	}
	parent.mu.Unlock()
	if child == nil {
		t.Fatalf("exec()'d child not linked into parent.Children")
	}

	child.Regs.V0 = SysExit
	child.Regs.A0 = 7
	mgr.Dispatch(child)

	statusVaddr := mem.PGSIZE * (parent.NumPages - 1) / 2 // anywhere valid and unused
	parent.Regs.V0 = SysJoin
	parent.Regs.A0 = childPid
	parent.Regs.A1 = statusVaddr
	mgr.Dispatch(parent)

	if parent.Regs.V0 != 1 {
		t.Fatalf("join() on a normally-exited child returned %d; want 1", int32(parent.Regs.V0))
	}

	buf := make([]byte, 4)
	if n := parent.Copier.ReadFromUser(statusVaddr, buf, 0, 4); n != 4 {
		t.Fatalf("reading back exit status failed: %d", n)
	}
	status := int32(uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24)
	if status != 7 {
		t.Fatalf("join() wrote exit status %d; want 7", status)
	}

	parent.mu.Lock()
	defer parent.mu.Unlock()
	for _, c := range parent.Children {
		if uint32(c.Pid) == childPid {
			t.Fatalf("joined child still present in parent.Children")
		}
	}
}

func TestSysExecRejectsNonCoffSuffix(t *testing.T) {
	mgr := newTestManager(16, 2, 4)
	p, _ := mgr.Execute(ustr.Ustr("a.coff"), nil)
	free0 := mgr.Ctx.Pool.NumFree()

	name := append([]byte("child.exe"), 0)
	if n := p.Copier.WriteToUser(0, name, 0, len(name)); n != len(name) {
		t.Fatalf("setup: writing child name failed: %d", n)
	}

	p.Regs.V0 = SysExec
	p.Regs.A0 = 0
	p.Regs.A1 = 0
	p.Regs.A2 = 0
	mgr.Dispatch(p)

	if int32(p.Regs.V0) != -1 {
		t.Fatalf("exec() of a non-.coff filename returned %d; want -1", int32(p.Regs.V0))
	}
	if len(p.Children) != 0 {
		t.Fatalf("exec() of a non-.coff filename created a child")
	}
	if got := mgr.Ctx.Pool.NumFree(); got != free0 {
		t.Fatalf("NumFree() = %d after a rejected exec; want %d (no frames consumed)", got, free0)
	}
}

func TestSysJoinOnNonChildReturnsNegativeOne(t *testing.T) {
	mgr := newTestManager(16, 2, 4)
	p, _ := mgr.Execute(ustr.Ustr("a.coff"), nil)

	p.Regs.V0 = SysJoin
	p.Regs.A0 = 999
	p.Regs.A1 = 0
	mgr.Dispatch(p)
	if int32(p.Regs.V0) != -1 {
		t.Fatalf("join() on a non-child returned %d; want -1", int32(p.Regs.V0))
	}
}

func TestUnknownSyscallKillsCaller(t *testing.T) {
	mgr := newTestManager(16, 2, 4)
	p, _ := mgr.Execute(ustr.Ustr("a.coff"), nil)

	p.Regs.V0 = 42
	mgr.Dispatch(p)

	_, status, normal := p.snapshot()
	if status != 2 || normal {
		t.Fatalf("unknown syscall did not kill the caller with status 2: status=%d normal=%v", status, normal)
	}
}
