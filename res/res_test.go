package res

import (
	"testing"

	"github.com/ImperishableMe/Nachos/bounds"
)

func TestUnlimitedByDefault(t *testing.T) {
	SetLimit(-1)
	for i := 0; i < 1000; i++ {
		if !Resadd_noblock(bounds.Bounds(bounds.B_COPY_TX)) {
			t.Fatalf("Resadd_noblock refused with no configured limit (iteration %d)", i)
		}
	}
}

func TestSetLimitCapsReservations(t *testing.T) {
	SetLimit(3)
	defer SetLimit(-1)

	ok := 0
	for i := 0; i < 5; i++ {
		if Resadd_noblock(bounds.Bounds(bounds.B_TRANSLATE)) {
			ok++
		}
	}
	if ok != 3 {
		t.Fatalf("granted %d reservations against a limit of 3; want 3", ok)
	}
}

func TestSetLimitResetsUsedCounter(t *testing.T) {
	SetLimit(1)
	if !Resadd_noblock(bounds.Bounds(bounds.B_COPY_TX)) {
		t.Fatalf("first reservation under a limit of 1 was refused")
	}
	if Resadd_noblock(bounds.Bounds(bounds.B_COPY_TX)) {
		t.Fatalf("second reservation exceeded a limit of 1 but was granted")
	}
	SetLimit(1) // re-arming should zero the used counter
	defer SetLimit(-1)
	if !Resadd_noblock(bounds.Bounds(bounds.B_COPY_TX)) {
		t.Fatalf("reservation after SetLimit() re-arm was refused")
	}
}
