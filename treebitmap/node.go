package treebitmap

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/hideo55/go-popcount"

	"github.com/aglyzov/go-lpm/nibble"
)

const (
	stride      = nibble.Width      // bits consumed per level
	maxDepth    = nibble.V6Len      // nodes on the longest root-to-leaf path
	maxChildren = 1 << stride       // 16
	maxResults  = 1<<(stride+1) - 1 // 31: relative lengths 0..4
	maxSkip     = nibble.V6Len - 2  // 30: nibbles between the root and depth 31
	nibbleMask  = 1<<stride - 1     // 0b_1111
)

// result is a stored value together with its prefix length, which tells
// apart results of different lengths colocated in one node.
type result[V any] struct {
	value V
	bits  uint8
}

// node is a single stride of the trie.
type node struct {
	children   uint16   // bit i: a subtree exists for nibble i
	skip       uint8    // nibbles collapsed between the parent and this node
	results    uint32   // bit idx: see resultIndex
	childBase  uint32   // node arena slot of width popcount(children)
	resultBase uint32   // result arena slot of width popcount(results)
	path       skipPath // the collapsed nibbles
}

func (n *node) hasChild(nib uint8) bool {
	return n.children&(1<<nib) != 0
}

func (n *node) hasResult(idx uint) bool {
	return n.results&(1<<idx) != 0
}

func (n *node) numChildren() int {
	return int(popcount.Count(uint64(n.children)))
}

func (n *node) numResults() int {
	return int(popcount.Count(uint64(n.results)))
}

// childRank maps a nibble to its position in the children slot.
func (n *node) childRank(nib uint8) int {
	return int(popcount.Count(uint64(n.children) & (1<<nib - 1)))
}

// resultRank maps a result index to its position in the results slot.
func (n *node) resultRank(idx uint) int {
	return int(popcount.Count(uint64(n.results) & (1<<idx - 1)))
}

func (n *node) isEmpty() bool {
	return n.children == 0 && n.results == 0
}

func (n *node) String() string {
	var b strings.Builder

	b.WriteString("<node")

	if n.skip != 0 {
		b.WriteString(fmt.Sprintf("|skip:%d|path:%s", n.skip, n.path.String(int(n.skip))))
	}

	b.WriteString(fmt.Sprintf("|chd:%016b", n.children))
	b.WriteString(fmt.Sprintf("|res:%031b", n.results))
	b.WriteByte('>')

	return b.String()
}

// resultIndex maps a nibble and a relative prefix length [0..4] to a bit in
// the results bitmap [1..31].
func resultIndex(nib uint8, rl int) uint {
	return 1<<rl + uint(nib)>>(stride-rl)
}

// indexLen is the inverse of resultIndex for the relative length.
func indexLen(idx uint) int {
	return bits.Len(idx) - 1
}

// indexNibble is the inverse of resultIndex for the nibble, host bits zeroed.
func indexNibble(idx uint) uint8 {
	rl := indexLen(idx)
	return uint8(idx-1<<rl) << (stride - rl)
}

// lpmMasks[nib] has the result bits of all prefixes covering nib.
var lpmMasks = func() (masks [maxChildren]uint32) {
	for nib := range masks {
		for rl := 0; rl <= stride; rl++ {
			masks[nib] |= 1 << resultIndex(uint8(nib), rl)
		}
	}

	return masks
}()

// targetDepth returns the depth of the node holding a prefix of length plen.
func targetDepth(plen int) int {
	if plen == 0 {
		return 0
	}

	return (plen - 1) / stride
}

// skipPath holds up to 32 nibbles packed most-significant first.
type skipPath [2]uint64

// pathOf packs nibbles into a skipPath.
func pathOf(nibs []uint8) (p skipPath) {
	for i, nib := range nibs {
		p.set(i, nib)
	}

	return p
}

func (p skipPath) at(i int) uint8 {
	return uint8(p[i>>4]>>(60-4*(i&15))) & nibbleMask
}

func (p *skipPath) set(i int, nib uint8) {
	shift := 60 - 4*(i&15)
	p[i>>4] = p[i>>4]&^(uint64(nibbleMask)<<shift) | uint64(nib&nibbleMask)<<shift
}

// sub returns the n nibbles starting at from.
func (p skipPath) sub(from, n int) (q skipPath) {
	for i := 0; i < n; i++ {
		q.set(i, p.at(from+i))
	}

	return q
}

// match returns the number of leading nibbles, up to n, that are equal in
// the path and in key.
func (p skipPath) match(key []uint8, n int) int {
	for i := 0; i < n; i++ {
		if p.at(i) != key[i] {
			return i
		}
	}

	return n
}

func (p skipPath) String(n int) string {
	var b strings.Builder

	for i := 0; i < n; i++ {
		b.WriteByte("0123456789abcdef"[p.at(i)])
	}

	return b.String()
}
