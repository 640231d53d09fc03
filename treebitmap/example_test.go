package treebitmap_test

import (
	"fmt"
	"net/netip"

	"github.com/aglyzov/go-lpm/treebitmap"
)

func ExampleTable_LongestMatch() {
	tbl := treebitmap.New[string]()

	for _, route := range []struct {
		pfx string
		hop string
	}{
		{"0.0.0.0/0", "upstream"},
		{"10.0.0.0/8", "core"},
		{"10.1.0.0/16", "dc-1"},
		{"10.1.2.0/24", "rack-12"},
		{"2001:db8::/32", "v6-core"},
	} {
		pfx := netip.MustParsePrefix(route.pfx)
		if _, _, err := tbl.Insert(pfx.Addr(), pfx.Bits(), route.hop); err != nil {
			panic(err)
		}
	}

	for _, ip := range []string{"10.1.2.5", "10.1.9.9", "10.9.9.9", "192.168.0.1", "2001:db8::1", "2001:db9::1"} {
		if pfx, hop, ok := tbl.LongestMatch(netip.MustParseAddr(ip)); ok {
			fmt.Printf("%-12s -> %-14s %s\n", ip, pfx, hop)
		} else {
			fmt.Printf("%-12s -> no route\n", ip)
		}
	}

	// Output:
	// 10.1.2.5     -> 10.1.2.0/24    rack-12
	// 10.1.9.9     -> 10.1.0.0/16    dc-1
	// 10.9.9.9     -> 10.0.0.0/8     core
	// 192.168.0.1  -> 0.0.0.0/0      upstream
	// 2001:db8::1  -> 2001:db8::/32  v6-core
	// 2001:db9::1  -> no route
}

func ExampleTable_Insert() {
	tbl := treebitmap.New[uint32]()
	addr := netip.MustParseAddr("192.168.0.0")

	prev, existed, _ := tbl.Insert(addr, 16, 1)
	fmt.Println(prev, existed)

	prev, existed, _ = tbl.Insert(addr, 16, 2)
	fmt.Println(prev, existed)

	_, _, err := tbl.Insert(addr, 33, 3)
	fmt.Println(err)

	fmt.Println(tbl.Len())

	// Output:
	// 0 false
	// 1 true
	// treebitmap: invalid mask length: 33 not in [0..32] for 192.168.0.0
	// 1
}

func ExampleTable_MemUsage() {
	tbl := treebitmap.New[uint32]()
	fmt.Println(tbl.MemUsage())

	_, _, _ = tbl.Insert(netip.MustParseAddr("10.1.2.0"), 24, 1)
	fmt.Println(tbl.MemUsage())

	_, _, _ = tbl.Remove(netip.MustParseAddr("10.1.2.0"), 24)
	fmt.Println(tbl.MemUsage())

	// Output:
	// 2 0
	// 3 1
	// 2 0
}
