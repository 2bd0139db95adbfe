package tinfo

import "github.com/ImperishableMe/Nachos/defs"
import "testing"

func TestTnoteAliveAndMarkDead(t *testing.T) {
	n := MkTnote()
	if !n.Alive() {
		t.Fatalf("a freshly-made Tnote_t reported not alive")
	}
	n.MarkDead()
	if n.Alive() {
		t.Fatalf("Alive() true after MarkDead()")
	}
}

func TestThreadinfoPutGetDel(t *testing.T) {
	var ti Threadinfo_t
	ti.Init()

	if _, ok := ti.Get(1); ok {
		t.Fatalf("Get() on an empty registry found something")
	}

	n := MkTnote()
	ti.Put(1, n)
	got, ok := ti.Get(1)
	if !ok || got != n {
		t.Fatalf("Get() after Put() returned (%v, %v); want the same note", got, ok)
	}
	if ti.Len() != 1 {
		t.Fatalf("Len() = %d; want 1", ti.Len())
	}

	ti.Del(1)
	if _, ok := ti.Get(1); ok {
		t.Fatalf("Get() found an entry after Del()")
	}
	if ti.Len() != 0 {
		t.Fatalf("Len() = %d after Del(); want 0", ti.Len())
	}
}

func TestThreadinfoTracksMultiplePids(t *testing.T) {
	var ti Threadinfo_t
	ti.Init()
	for _, pid := range []defs.Pid_t{1, 2, 3} {
		ti.Put(pid, MkTnote())
	}
	if ti.Len() != 3 {
		t.Fatalf("Len() = %d; want 3", ti.Len())
	}
}
