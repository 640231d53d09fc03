package arena

import "fmt"

// PageSlots is the number of slots in a single backing page.
const PageSlots = 256

// Pool is a growable pool of fixed-width slots.
type Pool[T any] struct {
	width int
	pages [][]T    // each page holds PageSlots*width values
	used  uint32   // high-water mark: slots [1..used] have been handed out
	live  int      // slots currently allocated
	free  []uint32 // LIFO free-list
}

// NewPool returns an empty pool of slots holding `width` values each with
// backing storage reserved for at least `capacity` slots.
func NewPool[T any](width, capacity int) *Pool[T] {
	if width <= 0 {
		panic(fmt.Errorf("%w: %d", ErrBadWidth, width))
	}

	p := &Pool[T]{width: width}
	p.Reserve(capacity)

	return p
}

// Width returns the number of values in a single slot.
func (p *Pool[T]) Width() int {
	return p.width
}

// Live returns the number of allocated slots.
func (p *Pool[T]) Live() int {
	return p.live
}

// Len returns the number of slots handed out so far, live and free.
func (p *Pool[T]) Len() int {
	return int(p.used)
}

// MemUsage returns the number of values in use by the backing storage
// (live and free slots alike).
func (p *Pool[T]) MemUsage() int {
	return int(p.used) * p.width
}

// Reserve makes sure there are pages for at least n slots.
func (p *Pool[T]) Reserve(n int) {
	for len(p.pages)*PageSlots < n {
		p.pages = append(p.pages, make([]T, PageSlots*p.width))
	}
}

// Alloc returns the index of a zeroed slot. A slot from the free-list is
// reused if there is one.
func (p *Pool[T]) Alloc() (idx uint32) {
	if l := len(p.free); l > 0 {
		idx = p.free[l-1]
		p.free = p.free[:l-1]
	} else {
		p.used++
		idx = p.used
		p.Reserve(int(idx))
	}
	p.live++

	return idx
}

// Free clears a slot and puts its index in the free-list for a re-use by
// subsequent Alloc calls. Once the last live slot is freed the pool rewinds
// to its initial state, keeping the pages.
func (p *Pool[T]) Free(idx uint32) {
	if idx == 0 || idx > p.used || p.live == 0 {
		panic(fmt.Errorf("%w: free %d (width %d, used %d)", ErrBadSlot, idx, p.width, p.used))
	}

	clear(p.Get(idx))
	p.live--

	if p.live == 0 {
		p.Reset()
		return
	}

	p.free = append(p.free, idx)
}

// Get returns the values of a slot. The returned slice aliases the pool's
// storage and stays valid until the slot is freed.
func (p *Pool[T]) Get(idx uint32) []T {
	if idx == 0 || idx > p.used {
		panic(fmt.Errorf("%w: get %d (width %d, used %d)", ErrBadSlot, idx, p.width, p.used))
	}

	var (
		i    = int(idx - 1)
		page = p.pages[i/PageSlots]
		off  = (i % PageSlots) * p.width
	)

	return page[off : off+p.width : off+p.width]
}

// Reset forgets about handed out slots and free-list indices (not freeing
// the memory).
func (p *Pool[T]) Reset() {
	p.used = 0
	p.live = 0
	p.free = p.free[:0]
}
