package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocator_Widths(t *testing.T) {
	t.Parallel()

	a := NewAllocator[byte](16)

	assert.Equal(t, 16, a.MaxWidth())

	for w := 1; w <= 16; w++ {
		idx := a.Alloc(w)
		assert.Equal(t, uint32(1), idx)
		assert.Len(t, a.Get(w, idx), w)
	}

	assert.Equal(t, 16, a.Live())
	assert.Equal(t, 16*17/2, a.MemUsage())

	assert.PanicsWithError(t, "arena: bad slot width: 17 not in [1..16]", func() { a.Alloc(17) })
	assert.Panics(t, func() { a.Alloc(0) })
}

func TestAllocator_MemUsageReturnsToZero(t *testing.T) {
	t.Parallel()

	a := NewAllocator[int](4)
	a.Reserve(100)

	assert.Equal(t, 0, a.MemUsage())

	var (
		ones = []uint32{a.Alloc(1), a.Alloc(1), a.Alloc(1)}
		four = a.Alloc(4)
	)

	assert.Equal(t, 7, a.MemUsage())

	a.Free(1, ones[1])
	assert.Equal(t, 7, a.MemUsage()) // live + free

	a.Free(1, ones[0])
	a.Free(1, ones[2])
	a.Free(4, four)

	assert.Equal(t, 0, a.MemUsage())
	assert.Equal(t, 0, a.Live())
}
