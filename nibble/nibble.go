// Package nibble renders IP addresses into 4-bit keys, most-significant
// nibble first, as consumed by stride-4 tries.
//
//	10.1.2.3      -> [0 a 0 1 0 2 0 3]
//	2001:db8::/32 -> [2 0 0 1 0 d b 8 0 0 ... 0]
package nibble

import (
	"net/netip"
)

const (
	// Width is the number of bits in a nibble.
	Width = 4

	// V4Len is the number of nibbles in an IPv4 key.
	V4Len = 32 / Width

	// V6Len is the number of nibbles in an IPv6 key.
	V6Len = 128 / Width

	mask = 1<<Width - 1 // 0b_1111
)

// Key is a fixed sequence of nibbles rendered from an address.
type Key struct {
	nibs [V6Len]uint8
	len  uint8
}

// FromAddr renders an address into a Key. The zone is ignored and
// IPv4-mapped IPv6 addresses stay IPv6. The zero Addr renders to an empty Key.
func FromAddr(addr netip.Addr) (k Key) {
	if !addr.IsValid() {
		return k
	}

	if addr.Is4() {
		a4 := addr.As4()
		k.fill(a4[:])
		return k
	}

	a16 := addr.As16()
	k.fill(a16[:])

	return k
}

func (k *Key) fill(octets []byte) {
	for i, b := range octets {
		k.nibs[i*2] = b >> Width
		k.nibs[i*2+1] = b & mask
	}
	k.len = uint8(len(octets) * 2)
}

// Len returns the number of nibbles in the key: 8, 32 or 0 for an empty key.
func (k *Key) Len() int {
	return int(k.len)
}

// Bits returns the bit width of the key: 32, 128 or 0 for an empty key.
func (k *Key) Bits() int {
	return int(k.len) * Width
}

// Slice returns the nibbles of the key. The slice aliases the key.
func (k *Key) Slice() []uint8 {
	return k.nibs[:k.len]
}

// Mask returns addr with all bits beyond the first `bits` cleared. It
// returns false if addr is invalid or bits is out of the family's range.
func Mask(addr netip.Addr, bits int) (netip.Addr, bool) {
	if !addr.IsValid() {
		return netip.Addr{}, false
	}

	pfx, err := addr.WithZone("").Prefix(bits)
	if err != nil {
		return netip.Addr{}, false
	}

	return pfx.Addr(), true
}

// ToAddr glues nibbles back into an address. Only keys of V4Len or V6Len
// nibbles are accepted.
func ToAddr(nibs []uint8) (netip.Addr, bool) {
	var octets [V6Len / 2]byte

	switch len(nibs) {
	case V4Len, V6Len:
	default:
		return netip.Addr{}, false
	}

	for i := 0; i < len(nibs)/2; i++ {
		octets[i] = nibs[2*i]<<Width | nibs[2*i+1]&mask
	}

	return netip.AddrFromSlice(octets[:len(nibs)/2])
}
