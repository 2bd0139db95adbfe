package accnt

import "testing"

func TestUtaddSystaddAccumulate(t *testing.T) {
	var a Accnt_t
	a.Utadd(100)
	a.Utadd(50)
	a.Systadd(10)
	if a.Userns != 150 {
		t.Fatalf("Userns = %d; want 150", a.Userns)
	}
	if a.Sysns != 10 {
		t.Fatalf("Sysns = %d; want 10", a.Sysns)
	}
}

func TestAddMergesChildIntoParent(t *testing.T) {
	var parent, child Accnt_t
	parent.Utadd(100)
	parent.Systadd(20)
	child.Utadd(7)
	child.Systadd(3)

	parent.Add(&child)

	if parent.Userns != 107 {
		t.Fatalf("parent.Userns = %d; want 107", parent.Userns)
	}
	if parent.Sysns != 23 {
		t.Fatalf("parent.Sysns = %d; want 23", parent.Sysns)
	}
	// The child's own counters are untouched by merging into the parent.
	if child.Userns != 7 || child.Sysns != 3 {
		t.Fatalf("child record mutated by Add(): userns=%d sysns=%d", child.Userns, child.Sysns)
	}
}

func TestFinishAddsElapsedSystemTime(t *testing.T) {
	var a Accnt_t
	start := a.Now()
	a.Finish(start)
	if a.Sysns < 0 {
		t.Fatalf("Finish() produced a negative system-time delta: %d", a.Sysns)
	}
}
