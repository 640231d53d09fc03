package arena

import "fmt"

// Allocator is a set of pools, one per slot width in [1..max].
type Allocator[T any] struct {
	pools []*Pool[T] // pools[w-1] has width w, created on demand
}

// NewAllocator returns an allocator serving slot widths from 1 up to max.
func NewAllocator[T any](max int) *Allocator[T] {
	if max <= 0 {
		panic(fmt.Errorf("%w: max %d", ErrBadWidth, max))
	}

	return &Allocator[T]{pools: make([]*Pool[T], max)}
}

// MaxWidth returns the widest slot the allocator serves.
func (a *Allocator[T]) MaxWidth() int {
	return len(a.pools)
}

// Pool returns the pool of the given width, creating it if needed.
func (a *Allocator[T]) Pool(width int) *Pool[T] {
	if width <= 0 || width > len(a.pools) {
		panic(fmt.Errorf("%w: %d not in [1..%d]", ErrBadWidth, width, len(a.pools)))
	}

	p := a.pools[width-1]
	if p == nil {
		p = NewPool[T](width, 0)
		a.pools[width-1] = p
	}

	return p
}

// Alloc returns a zeroed slot of the given width.
func (a *Allocator[T]) Alloc(width int) uint32 {
	return a.Pool(width).Alloc()
}

// Free returns a slot of the given width to its pool.
func (a *Allocator[T]) Free(width int, idx uint32) {
	a.Pool(width).Free(idx)
}

// Get returns the values of a slot of the given width.
func (a *Allocator[T]) Get(width int, idx uint32) []T {
	return a.Pool(width).Get(idx)
}

// Reserve pre-allocates backing storage for n single-value slots, the most
// common shape in sparse tries (path-compressed chains and lone results).
func (a *Allocator[T]) Reserve(n int) {
	if n > 0 {
		a.Pool(1).Reserve(n)
	}
}

// Live returns the number of allocated slots across all widths.
func (a *Allocator[T]) Live() (n int) {
	for _, p := range a.pools {
		if p != nil {
			n += p.Live()
		}
	}

	return n
}

// MemUsage returns the number of values held by all the pools' backing
// storage, counting live and free slots.
func (a *Allocator[T]) MemUsage() (n int) {
	for _, p := range a.pools {
		if p != nil {
			n += p.MemUsage()
		}
	}

	return n
}
