package util

import "testing"

func TestMin(t *testing.T) {
	if got := Min(3, 5); got != 3 {
		t.Fatalf("Min(3, 5) = %d; want 3", got)
	}
	if got := Min(5, 3); got != 3 {
		t.Fatalf("Min(5, 3) = %d; want 3", got)
	}
	if got := Min(uint32(4096), uint32(12)); got != 12 {
		t.Fatalf("Min(4096, 12) = %d; want 12", got)
	}
}
