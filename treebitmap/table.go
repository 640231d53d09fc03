package treebitmap

import (
	"fmt"
	"net/netip"

	"github.com/aglyzov/go-lpm/nibble"
)

// Table is an IPv4 and IPv6 longest-prefix-match table with payload V.
// The zero value is ready to use.
//
// Both address families share the arenas but have their own root, so a
// prefix of one family never matches an address of the other.
type Table[V any] struct {
	trie[V]
	root4 node
	root6 node
	size  int
}

// New returns an empty table.
func New[V any]() *Table[V] {
	return WithCapacity[V](0)
}

// WithCapacity returns an empty table with arena storage reserved for n
// expected entries.
func WithCapacity[V any](n int) *Table[V] {
	return &Table[V]{trie: newTrie[V](n)}
}

func (t *Table[V]) init() {
	if t.nodes == nil {
		t.trie = newTrie[V](0)
	}
}

// rootOf selects the root node for the address family of a key.
func (t *Table[V]) rootOf(key *nibble.Key) *node {
	if key.Len() == nibble.V4Len {
		return &t.root4
	}

	return &t.root6
}

// keyOf validates addr and plen and renders the key.
func keyOf(addr netip.Addr, plen int) (key nibble.Key, err error) {
	if !addr.IsValid() {
		return key, ErrInvalidAddr
	}

	key = nibble.FromAddr(addr)

	if width := key.Bits(); plen < 0 || plen > width {
		return nibble.Key{}, fmt.Errorf("%w: %d not in [0..%d] for %s", ErrInvalidMask, plen, width, addr)
	}

	return key, nil
}

// Insert stores val under the prefix addr/plen, host bits of addr beyond
// plen are ignored. If the prefix was already present its previous value is
// returned and replaced.
//
// An invalid address or mask length is reported before the table is
// touched.
func (t *Table[V]) Insert(addr netip.Addr, plen int, val V) (prev V, existed bool, err error) {
	key, err := keyOf(addr, plen)
	if err != nil {
		return prev, false, err
	}

	t.init()

	prev, existed = t.insert(t.rootOf(&key), key.Slice(), plen, val)
	if !existed {
		t.size++
	}

	return prev, existed, nil
}

// Remove deletes the prefix addr/plen and returns its value, or false if the
// prefix was not in the table.
func (t *Table[V]) Remove(addr netip.Addr, plen int) (val V, ok bool, err error) {
	key, err := keyOf(addr, plen)
	if err != nil || t.nodes == nil {
		return val, false, err
	}

	val, ok = t.remove(t.rootOf(&key), key.Slice(), plen)
	if ok {
		t.size--
	}

	return val, ok, nil
}

// ExactMatch returns the value stored under exactly addr/plen. A covering
// shorter prefix does not count.
func (t *Table[V]) ExactMatch(addr netip.Addr, plen int) (val V, ok bool, err error) {
	key, err := keyOf(addr, plen)
	if err != nil || t.nodes == nil {
		return val, false, err
	}

	val, ok = t.lookup(t.rootOf(&key), key.Slice(), plen)

	return val, ok, nil
}

// LongestMatch returns the longest stored prefix containing addr together
// with its value. The returned prefix is addr masked to the matched length.
// An invalid address matches nothing.
func (t *Table[V]) LongestMatch(addr netip.Addr) (pfx netip.Prefix, val V, ok bool) {
	if !addr.IsValid() || t.nodes == nil {
		return pfx, val, false
	}

	key := nibble.FromAddr(addr)

	plen, val, ok := t.longestMatch(t.rootOf(&key), key.Slice())
	if !ok {
		return pfx, val, false
	}

	masked, _ := nibble.Mask(addr, plen)

	return netip.PrefixFrom(masked, plen), val, true
}

// Len returns the number of stored prefixes.
func (t *Table[V]) Len() int {
	return t.size
}

// MemUsage returns the number of node and result slots held by the table,
// live and free. The node count includes the two roots.
// Storage reserved by WithCapacity but never handed out is not counted.
func (t *Table[V]) MemUsage() (nodes, results int) {
	if t.nodes == nil {
		return 2, 0
	}

	return 2 + t.nodes.MemUsage(), t.results.MemUsage()
}

// Walk calls fn for every stored prefix, IPv4 first, until fn returns false.
// The table must not be modified from within fn.
func (t *Table[V]) Walk(fn func(pfx netip.Prefix, val V) bool) {
	if t.nodes == nil {
		return
	}

	for _, fam := range []struct {
		root *node
		size int
	}{
		{&t.root4, nibble.V4Len},
		{&t.root6, nibble.V6Len},
	} {
		size := fam.size

		var buf [maxDepth]uint8

		cont := t.walk(fam.root, 0, &buf, func(nibs *[maxDepth]uint8, plen int, val V) bool {
			addr, _ := nibble.ToAddr(nibs[:size])
			masked, _ := nibble.Mask(addr, plen)

			return fn(netip.PrefixFrom(masked, plen), val)
		})
		if !cont {
			return
		}
	}
}

// Prefixes returns all stored prefixes in Walk order.
func (t *Table[V]) Prefixes() []netip.Prefix {
	pfxs := make([]netip.Prefix, 0, t.size)

	t.Walk(func(pfx netip.Prefix, _ V) bool {
		pfxs = append(pfxs, pfx)
		return true
	})

	return pfxs
}
