package treebitmap

import (
	"math/bits"

	"github.com/aglyzov/go-lpm/arena"
)

// trie holds the arenas shared by all the nodes and results of a table.
// The roots are kept by the caller.
type trie[V any] struct {
	nodes   *arena.Allocator[node]
	results *arena.Allocator[result[V]]
}

func newTrie[V any](capacity int) trie[V] {
	t := trie[V]{
		nodes:   arena.NewAllocator[node](maxChildren),
		results: arena.NewAllocator[result[V]](maxResults),
	}

	t.nodes.Reserve(capacity)
	t.results.Reserve(capacity)

	return t
}

// trail records the nodes visited on the way down, trail.nodes[0] is the
// root and trail.nibs[i] leads from trail.nodes[i] to trail.nodes[i+1].
type trail struct {
	nodes [maxDepth]*node
	nibs  [maxDepth]uint8
	size  int
}

func (tr *trail) push(n *node, nib uint8) {
	tr.nibs[tr.size-1] = nib
	tr.nodes[tr.size] = n
	tr.size++
}

// child returns the subtree of n for a nibble that is known to be present.
func (t *trie[V]) child(n *node, nib uint8) *node {
	return &t.nodes.Get(n.numChildren(), n.childBase)[n.childRank(nib)]
}

// find descends to the node holding prefixes of length plen, following key.
// It returns nil if the node does not exist.
func (t *trie[V]) find(root *node, key []uint8, plen int, tr *trail) *node {
	var (
		n      = root
		target = targetDepth(plen)
	)

	if tr != nil {
		tr.nodes[0] = root
		tr.size = 1
	}

	for d := 0; d < target; {
		nib := key[d]
		if !n.hasChild(nib) {
			return nil
		}

		c := t.child(n, nib)
		d++

		skip := int(c.skip)
		if d+skip > target || c.path.match(key[d:], skip) != skip {
			// the prefix ends inside or diverges from the chain
			return nil
		}
		d += skip

		if tr != nil {
			tr.push(c, nib)
		}
		n = c
	}

	return n
}

// insert stores val under the prefix of length plen of key and returns the
// value it replaced, if any.
func (t *trie[V]) insert(root *node, key []uint8, plen int, val V) (old V, existed bool) {
	var (
		n      = root
		d      = 0
		target = targetDepth(plen)
	)

	for d < target {
		nib := key[d]

		if !n.hasChild(nib) {
			// nothing else would be bypassed: one node at the target depth
			c := node{
				skip: uint8(target - d - 1),
				path: pathOf(key[d+1 : target]),
			}
			t.setResult(&c, key[target], plen-target*stride, plen, val)
			t.insertChild(n, nib, c)

			return old, false
		}

		c := t.child(n, nib)
		d++

		limit := int(c.skip)
		if target-d < limit {
			limit = target - d
		}

		m := c.path.match(key[d:], limit)
		if m < int(c.skip) {
			// diverged from the chain or the prefix ends inside of it
			t.split(c, m)
		}

		n = c
		d += m
	}

	return t.setResult(n, key[d], plen-d*stride, plen, val)
}

// remove deletes the prefix of length plen of key and returns its value.
// Nodes left empty are released and chains left without a branch merged.
func (t *trie[V]) remove(root *node, key []uint8, plen int) (old V, ok bool) {
	var tr trail

	n := t.find(root, key, plen, &tr)
	if n == nil {
		return old, false
	}

	d := targetDepth(plen)
	idx := resultIndex(key[d], plen-d*stride)

	if !n.hasResult(idx) {
		return old, false
	}

	var r result[V]
	r, n.resultBase = deleteAt(t.results, n.resultBase, n.numResults(), n.resultRank(idx))
	n.results &^= 1 << idx

	t.compact(&tr)

	return r.value, true
}

// lookup returns the value of the prefix of length plen of key.
func (t *trie[V]) lookup(root *node, key []uint8, plen int) (val V, ok bool) {
	n := t.find(root, key, plen, nil)
	if n == nil {
		return val, false
	}

	d := targetDepth(plen)
	idx := resultIndex(key[d], plen-d*stride)

	if !n.hasResult(idx) {
		return val, false
	}

	return t.results.Get(n.numResults(), n.resultBase)[n.resultRank(idx)].value, true
}

// longestMatch returns the longest stored prefix covering key. Every node
// on the way down is visited exactly once, a longer match found deeper
// replaces the running best.
func (t *trie[V]) longestMatch(root *node, key []uint8) (plen int, val V, ok bool) {
	n := root

	for d := 0; ; {
		nib := key[d]

		if m := n.results & lpmMasks[nib]; m != 0 {
			idx := uint(bits.Len32(m) - 1)
			r := &t.results.Get(n.numResults(), n.resultBase)[n.resultRank(idx)]
			plen, val, ok = int(r.bits), r.value, true
		}

		if !n.hasChild(nib) {
			return plen, val, ok
		}

		c := t.child(n, nib)
		d++

		skip := int(c.skip)
		if c.path.match(key[d:], skip) != skip {
			// nothing below a diverging chain can match
			return plen, val, ok
		}

		d += skip
		n = c
	}
}

// setResult writes val to the result slot of (nib, rl) in n.
func (t *trie[V]) setResult(n *node, nib uint8, rl, plen int, val V) (old V, existed bool) {
	idx := resultIndex(nib, rl)
	pos := n.resultRank(idx)

	if n.hasResult(idx) {
		r := &t.results.Get(n.numResults(), n.resultBase)[pos]
		old, r.value = r.value, val

		return old, true
	}

	n.resultBase = insertAt(t.results, n.resultBase, n.numResults(), pos, result[V]{value: val, bits: uint8(plen)})
	n.results |= 1 << idx

	return old, false
}

func (t *trie[V]) insertChild(n *node, nib uint8, c node) {
	n.childBase = insertAt(t.nodes, n.childBase, n.numChildren(), n.childRank(nib), c)
	n.children |= 1 << nib
}

func (t *trie[V]) removeChild(n *node, nib uint8) {
	_, n.childBase = deleteAt(t.nodes, n.childBase, n.numChildren(), n.childRank(nib))
	n.children &^= 1 << nib
}

// split cuts the chain of c in front of its m-th nibble: c becomes a
// branching node at that depth with its former self as the only child.
func (t *trie[V]) split(c *node, m int) {
	var (
		lower = *c
		nib   = c.path.at(m)
	)

	lower.skip = c.skip - uint8(m) - 1
	lower.path = c.path.sub(m+1, int(lower.skip))

	slot := t.nodes.Alloc(1)
	t.nodes.Get(1, slot)[0] = lower

	*c = node{
		children:  1 << nib,
		childBase: slot,
		skip:      uint8(m),
		path:      c.path.sub(0, m),
	}
}

// merge folds the only child of a result-less node into it.
func (t *trie[V]) merge(n *node) {
	var (
		nib  = uint8(bits.TrailingZeros16(n.children))
		c    = t.nodes.Get(1, n.childBase)[0]
		skip = int(n.skip)
		path = n.path
	)

	path.set(skip, nib)
	for i := 0; i < int(c.skip); i++ {
		path.set(skip+1+i, c.path.at(i))
	}

	t.nodes.Free(1, n.childBase)

	c.skip += n.skip + 1
	c.path = path
	*n = c
}

// compact walks a trail bottom-up, releasing empty nodes and merging
// branch-less ones. The root is never released.
func (t *trie[V]) compact(tr *trail) {
	for i := tr.size - 1; i > 0; i-- {
		n := tr.nodes[i]

		switch {
		case n.isEmpty():
			t.removeChild(tr.nodes[i-1], tr.nibs[i-1])
			continue

		case n.results == 0 && n.numChildren() == 1:
			t.merge(n)
		}

		return
	}
}

// walk calls fn for every result below n in trie order: a node's results
// by ascending index, then its subtrees by ascending nibble. buf receives
// the nibbles of the prefix, those beyond the prefix length are garbage.
func (t *trie[V]) walk(n *node, d int, buf *[maxDepth]uint8, fn func(buf *[maxDepth]uint8, plen int, val V) bool) bool {
	if w := n.numResults(); w > 0 {
		rs := t.results.Get(w, n.resultBase)

		i := 0
		for bm := n.results; bm != 0; bm &= bm - 1 {
			buf[d] = indexNibble(uint(bits.TrailingZeros32(bm)))

			if !fn(buf, int(rs[i].bits), rs[i].value) {
				return false
			}
			i++
		}
	}

	if w := n.numChildren(); w > 0 {
		cs := t.nodes.Get(w, n.childBase)

		i := 0
		for bm := n.children; bm != 0; bm &= bm - 1 {
			c := &cs[i]
			i++

			buf[d] = uint8(bits.TrailingZeros16(bm))
			for j := 0; j < int(c.skip); j++ {
				buf[d+1+j] = c.path.at(j)
			}

			if !t.walk(c, d+1+int(c.skip), buf, fn) {
				return false
			}
		}
	}

	return true
}

// insertAt stores item at pos of a popcount-compressed array of w items
// kept in slot base, moving the array to a slot of width w+1.
func insertAt[T any](a *arena.Allocator[T], base uint32, w, pos int, item T) (slot uint32) {
	slot = a.Alloc(w + 1)
	dst := a.Get(w+1, slot)

	if w > 0 {
		src := a.Get(w, base)
		copy(dst[:pos], src[:pos])
		copy(dst[pos+1:], src[pos:])
		a.Free(w, base)
	}

	dst[pos] = item

	return slot
}

// deleteAt removes the item at pos of a popcount-compressed array of w items
// kept in slot base, moving the array to a slot of width w-1. The returned
// slot is 0 once the array is empty.
func deleteAt[T any](a *arena.Allocator[T], base uint32, w, pos int) (item T, slot uint32) {
	src := a.Get(w, base)
	item = src[pos]

	if w > 1 {
		slot = a.Alloc(w - 1)
		dst := a.Get(w-1, slot)
		copy(dst[:pos], src[:pos])
		copy(dst[pos:], src[pos+1:])
	}

	a.Free(w, base)

	return item, slot
}
