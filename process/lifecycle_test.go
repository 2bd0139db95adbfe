package process

import (
	"github.com/ImperishableMe/Nachos/ustr"
	"testing"
)

func TestExecuteFirstProcessBecomesRoot(t *testing.T) {
	mgr := newTestManager(16, 2, 4)
	p, err := mgr.Execute(ustr.Ustr("root.coff"), nil)
	if err != 0 {
		t.Fatalf("Execute() failed: %v", err)
	}
	mgr.Ctx.Disable()
	isRoot := mgr.Ctx.IsRoot(p.Pid)
	mgr.Ctx.Restore()
	if !isRoot {
		t.Fatalf("first process executed did not become root")
	}
}

func TestFrameAccountingAcrossExecAndExit(t *testing.T) {
	mgr := newTestManager(16, 2, 4)
	free0 := mgr.Ctx.Pool.NumFree()

	p, err := mgr.Execute(ustr.Ustr("a.coff"), nil)
	if err != 0 {
		t.Fatalf("Execute() failed: %v", err)
	}
	k := p.NumPages
	if got, want := mgr.Ctx.Pool.NumFree(), free0-k; got != want {
		t.Fatalf("NumFree() after exec = %d; want %d (%d free before, minus a %d-page process)", got, want, free0, k)
	}

	mgr.KillProcess(p, 0, true)
	if got := mgr.Ctx.Pool.NumFree(); got != free0 {
		t.Fatalf("NumFree() after exit = %d; want %d (all frames returned)", got, free0)
	}
}

func TestKillProcessDisownsChildren(t *testing.T) {
	mgr := newTestManager(16, 2, 8)
	parent, _ := mgr.Execute(ustr.Ustr("parent.coff"), nil)
	child, _ := mgr.Execute(ustr.Ustr("child.coff"), nil)

	parent.mu.Lock()
	parent.Children = append(parent.Children, child)
	parent.mu.Unlock()
	child.mu.Lock()
	child.Parent = parent
	child.mu.Unlock()

	mgr.KillProcess(parent, 0, true)

	child.mu.Lock()
	defer child.mu.Unlock()
	if child.Parent != nil {
		t.Fatalf("child still references its parent after the parent exited")
	}
}

func TestAliveCountReachesZeroTerminatesKernel(t *testing.T) {
	mgr := newTestManager(16, 2, 4)
	p, _ := mgr.Execute(ustr.Ustr("only.coff"), nil)

	select {
	case <-mgr.Ctx.Terminated():
		t.Fatalf("kernel reported terminated with a process still alive")
	default:
	}

	mgr.KillProcess(p, 0, true)

	select {
	case <-mgr.Ctx.Terminated():
	default:
		t.Fatalf("kernel did not terminate after its last process exited")
	}
}

func TestExecuteRejectsAdmissionPastCapacity(t *testing.T) {
	mgr := newTestManager(64, 2, 1)
	if _, err := mgr.Execute(ustr.Ustr("a.coff"), nil); err != 0 {
		t.Fatalf("first Execute() under the process-table cap failed: %v", err)
	}
	if _, err := mgr.Execute(ustr.Ustr("b.coff"), nil); err == 0 {
		t.Fatalf("Execute() past the process-table cap succeeded")
	}
}
