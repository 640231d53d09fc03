// Package treebitmap implements a longest-prefix-match table over IPv4 and
// IPv6 prefixes based on a stride-4 Tree Bitmap (a compressed 16-way trie).
//
// Every trie node consumes one nibble of the key and carries two bitmaps:
//
//   - children - 16 bits, bit i is set if a subtree exists for nibble i;
//   - results  - 31 bits, one per prefix of relative length 0..4 that ends
//     inside the node's nibble (length 0 is only used by the roots).
//
// Node payloads are popcount-compressed: the children of a node live in one
// slot of the node arena whose width is popcount(children), and likewise for
// results. The n-th set bit of a bitmap addresses item n of the slot:
//
//	children: 0b_0000_0100_1000_0010      slot: [ node(1) | node(7) | node(10) ]
//	                  ^    ^       ^
//	                 10    7       1          rank(7) = popcount(0b_1000_0010 & (1<<7 - 1)) = 1
//
// Result bitmap index (the ART base index on 4 bits):
//
//	idx = 1<<rl + nibble>>(4-rl)
//
//	rl  idx range  prefixes
//	--  ---------  -------------------------
//	 0   [ 1]      */0
//	 1   [ 2.. 3]  0/1, 8/1
//	 2   [ 4.. 7]  0/2, 4/2, 8/2, c/2
//	 3   [ 8..15]  0/3 .. e/3
//	 4   [16..31]  0/4 .. f/4
//
// The greater the index the longer the prefix, so the longest match inside
// a node is the highest set bit of results&lpmMask(nibble).
//
// Path compression:
// ----------------
//
// A run of nodes without results and with a single child is collapsed into
// one node that records how many nibbles were skipped and what they are:
//
//	key(10.1.2.0) = 0 a 0 1 0 2 0 0
//
//	[root] --0--> [skip:4 path:a010 results:{2/4}]   (10.1.2.0/24)
//
// The /24 ends in the 6th nibble, so its node sits at depth 5 and is reached
// from the root through nibble 0 and four skipped nibbles.
//
// Chains are split at the first nibble that differs on insertion and merged
// back on removal, so the trie stays maximally compressed at all times.
//
// A Table is not safe for concurrent use; callers serialize access.
package treebitmap
