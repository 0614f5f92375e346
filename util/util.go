package util

import (
	"encoding/binary"
	"math/bits"
	"net/netip"
	"unicode"
)

func v4(a netip.Addr) uint32 {
	b := a.As4()
	return binary.BigEndian.Uint32(b[:])
}

// MaskBits returns the prefix length of an IPv4 subnet mask. The second result
// is false when the address is not IPv4 or its one bits are not contiguous.
func MaskBits(mask netip.Addr) (int, bool) {
	if !mask.Is4() {
		return 0, false
	}
	inv := ^v4(mask)
	if inv&(inv+1) != 0 {
		return 0, false
	}
	return 32 - bits.OnesCount32(inv), true
}

// SameSubnet reports whether a and b share a network under mask.
func SameSubnet(a netip.Addr, b netip.Addr, mask netip.Addr) bool {
	if !a.Is4() || !b.Is4() || !mask.Is4() {
		return false
	}
	m := v4(mask)
	return v4(a)&m == v4(b)&m
}

func HasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
