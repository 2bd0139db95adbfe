package mem

import "testing"

func TestAddrRoundTrip(t *testing.T) {
	cases := []uint32{0, 1, PGSIZE - 1, PGSIZE, PGSIZE + 1, 3 * PGSIZE, 0xffffffff}
	for _, a := range cases {
		vpn, off := VPN(a), Offset(a)
		if got := Addr(vpn, off); got != a {
			t.Fatalf("Addr(VPN(%d), Offset(%d)) = %d; want %d", a, a, got, a)
		}
	}
}

func TestOffsetBounded(t *testing.T) {
	for _, a := range []uint32{0, PGSIZE - 1, PGSIZE, 12345} {
		if off := Offset(a); off >= PGSIZE {
			t.Fatalf("Offset(%d) = %d; want < PGSIZE (%d)", a, off, PGSIZE)
		}
	}
}

func TestVPNMonotonic(t *testing.T) {
	if VPN(0) != 0 || VPN(PGSIZE) != 1 || VPN(2*PGSIZE-1) != 1 || VPN(2*PGSIZE) != 2 {
		t.Fatalf("VPN did not split addresses on PGSIZE boundaries")
	}
}
