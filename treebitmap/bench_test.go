package treebitmap

import (
	"net/netip"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
)

const benchSeed = 1234567890

func benchData(total int) ([]netip.Prefix, []netip.Addr) {
	var (
		fake  = gofakeit.New(benchSeed)
		pfxs  = make([]netip.Prefix, total)
		addrs = make([]netip.Addr, total)
	)

	for i := range pfxs {
		pfxs[i] = fakePrefix(fake)
		addrs[i] = fakeAddr(fake)
	}

	return pfxs, addrs
}

func BenchmarkTable_Insert(b *testing.B) {
	pfxs, _ := benchData(100_000)
	tbl := WithCapacity[int](len(pfxs))

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		pfx := pfxs[i%len(pfxs)]
		_, _, _ = tbl.Insert(pfx.Addr(), pfx.Bits(), i)
	}
}

func BenchmarkTable_LongestMatch(b *testing.B) {
	pfxs, addrs := benchData(100_000)
	tbl := New[int]()

	for i, pfx := range pfxs {
		_, _, _ = tbl.Insert(pfx.Addr(), pfx.Bits(), i)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _, _ = tbl.LongestMatch(addrs[i%len(addrs)])
	}
}

func BenchmarkTable_ExactMatch(b *testing.B) {
	pfxs, _ := benchData(100_000)
	tbl := New[int]()

	for i, pfx := range pfxs {
		_, _, _ = tbl.Insert(pfx.Addr(), pfx.Bits(), i)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		pfx := pfxs[i%len(pfxs)]
		_, _, _ = tbl.ExactMatch(pfx.Addr(), pfx.Bits())
	}
}

func BenchmarkTable_InsertRemove(b *testing.B) {
	pfxs, _ := benchData(10_000)
	tbl := New[int]()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for j, pfx := range pfxs {
			_, _, _ = tbl.Insert(pfx.Addr(), pfx.Bits(), j)
		}

		for _, pfx := range pfxs {
			_, _, _ = tbl.Remove(pfx.Addr(), pfx.Bits())
		}
	}
}
