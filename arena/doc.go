// Package arena implements index-addressed slot pools with free-list reuse.
//
// A Pool hands out slots of a fixed width (a slot is `width` contiguous
// values of T). Slots are addressed by a uint32 index; index 0 is never
// returned and serves as a "none" sentinel.
//
// Storage layout:
// --------------
//
//	page 0                          page 1
//	[ slot 1 | slot 2 | ... | slot P ] [ slot P+1 | ... ]
//	  ^ width values each
//
// Pages are never moved or released once allocated, so a slot's values keep
// their address for as long as the slot is live. Freed slots go on a LIFO
// free list and the most recently freed one is reused first.
//
// An Allocator groups one Pool per width in [1..max] and is what sparse
// (popcount-compressed) arrays are stored in: an array of n items lives in a
// single slot of the width-n pool and moves to the neighbouring pool when it
// grows or shrinks.
package arena
