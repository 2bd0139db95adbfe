package mem

import "testing"

func TestFramePoolAllocReleaseRoundTrip(t *testing.T) {
	fp := NewFramePool(4)
	if fp.NumFree() != 4 {
		t.Fatalf("NumFree() = %d; want 4", fp.NumFree())
	}
	var got []uint32
	for i := 0; i < 4; i++ {
		ppn, ok := fp.Alloc()
		if !ok {
			t.Fatalf("Alloc() failed with %d frames still expected free", 4-i)
		}
		got = append(got, ppn)
	}
	if _, ok := fp.Alloc(); ok {
		t.Fatalf("Alloc() succeeded on an exhausted pool")
	}
	if fp.NumFree() != 0 {
		t.Fatalf("NumFree() = %d; want 0", fp.NumFree())
	}
	seen := make(map[uint32]bool)
	for _, ppn := range got {
		if seen[ppn] {
			t.Fatalf("Alloc() returned ppn %d twice", ppn)
		}
		seen[ppn] = true
	}
	for _, ppn := range got {
		fp.Release(ppn)
	}
	if fp.NumFree() != 4 {
		t.Fatalf("NumFree() after releasing everything = %d; want 4", fp.NumFree())
	}
}

func TestFramePoolDoubleReleasePanics(t *testing.T) {
	fp := NewFramePool(2)
	ppn, _ := fp.Alloc()
	fp.Release(ppn)
	defer func() {
		if recover() == nil {
			t.Fatalf("Release of an already-freed ppn did not panic")
		}
	}()
	fp.Release(ppn)
}

func TestFramePoolAllocNAllOrNothing(t *testing.T) {
	fp := NewFramePool(3)
	if _, ok := fp.AllocN(4); ok {
		t.Fatalf("AllocN(4) succeeded against a 3-frame pool")
	}
	if fp.NumFree() != 3 {
		t.Fatalf("AllocN failure leaked frames: NumFree() = %d; want 3", fp.NumFree())
	}
	ppns, ok := fp.AllocN(3)
	if !ok || len(ppns) != 3 {
		t.Fatalf("AllocN(3) = %v, %v; want 3 distinct ppns, true", ppns, ok)
	}
	if fp.NumFree() != 0 {
		t.Fatalf("NumFree() after AllocN(3) on a 3-frame pool = %d; want 0", fp.NumFree())
	}
}
