package rtable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/netip"
	"strings"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aglyzov/go-lpm/treebitmap"
)

var mpa = netip.MustParseAddr

func TestTable(t *testing.T) {
	t.Parallel()

	tbl := New(WithCapacity(16))

	for i, pfx := range []string{"10.0.0.0/8", "10.1.0.0/16", "10.1.2.0/24", "2001:db8::/32"} {
		p := netip.MustParsePrefix(pfx)

		_, existed, err := tbl.Add(p.Addr(), p.Bits(), uint32(i))
		require.NoError(t, err)
		require.False(t, existed)
	}

	assert.Equal(t, 4, tbl.Len())

	route, ok := tbl.LongestMatch(mpa("10.1.2.5"))
	require.True(t, ok)
	assert.Equal(t, Route{Prefix: netip.MustParsePrefix("10.1.2.0/24"), Value: 2}, route)

	val, ok, err := tbl.ExactMatch(mpa("2001:db8::"), 32)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(3), val)

	val, ok, err = tbl.Remove(mpa("10.1.0.0"), 16)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(1), val)

	route, ok = tbl.LongestMatch(mpa("10.1.9.9"))
	require.True(t, ok)
	assert.Equal(t, netip.MustParsePrefix("10.0.0.0/8"), route.Prefix)

	_, _, err = tbl.Add(mpa("10.0.0.0"), 40, 1)
	assert.ErrorIs(t, err, treebitmap.ErrInvalidMask)

	nodes, results := tbl.Memory()
	assert.Greater(t, nodes, 2)
	assert.Equal(t, 4, results) // the slot freed by Remove still counts

	assert.ElementsMatch(t, []Route{
		{netip.MustParsePrefix("10.0.0.0/8"), 0},
		{netip.MustParsePrefix("10.1.2.0/24"), 2},
		{netip.MustParsePrefix("2001:db8::/32"), 3},
	}, tbl.Routes())
}

func TestTable_Concurrent(t *testing.T) {
	t.Parallel()

	const (
		workers = 8
		each    = 500
		seed    = 1234567890
	)

	var (
		tbl = New()
		wg  sync.WaitGroup
	)

	for w := 0; w < workers; w++ {
		// each worker owns a /16 so the final count is known
		base := netip.AddrFrom4([4]byte{10, byte(w), 0, 0})
		fake := gofakeit.New(seed + int64(w))

		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := 0; i < each; i++ {
				a4 := base.As4()
				a4[2], a4[3] = byte(i>>8), byte(i)

				_, _, err := tbl.Add(netip.AddrFrom4(a4), 32, uint32(i))
				assert.NoError(t, err)

				// readers interleave with writers
				_, _ = tbl.LongestMatch(netip.MustParseAddr(fake.IPv4Address()))
				_ = tbl.Len()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, workers*each, tbl.Len())

	for w := 0; w < workers; w++ {
		route, ok := tbl.LongestMatch(netip.AddrFrom4([4]byte{10, byte(w), 1, 7}))
		require.True(t, ok)
		assert.Equal(t, uint32(256+7), route.Value)
	}
}

func TestParseRoutes(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Name      string
		Input     string
		ExpRoutes []Route
		ExpErr    string
	}{
		{
			Name:      "empty",
			Input:     "",
			ExpRoutes: nil,
		},
		{
			Name: "comments and blanks",
			Input: `# default
0.0.0.0/0   1

10.0.0.0/8  0x10 # hex is fine
2001:db8::1/32 7
`,
			ExpRoutes: []Route{
				{netip.MustParsePrefix("0.0.0.0/0"), 1},
				{netip.MustParsePrefix("10.0.0.0/8"), 16},
				{netip.MustParsePrefix("2001:db8::1/32"), 7},
			},
		},
		{
			Name:   "missing value",
			Input:  "10.0.0.0/8 1\n10.1.0.0/16\n",
			ExpErr: `rtable: syntax error: line 2: want "prefix value", got "10.1.0.0/16"`,
		},
		{
			Name:   "bad prefix",
			Input:  "10.0.0.0/33 1\n",
			ExpErr: "rtable: syntax error: line 1:",
		},
		{
			Name:   "value overflow",
			Input:  "10.0.0.0/8 4294967296\n",
			ExpErr: "rtable: syntax error: line 1:",
		},
	} {
		tcase := tcase

		t.Run(tcase.Name, func(t *testing.T) {
			t.Parallel()

			routes, err := ParseRoutes(strings.NewReader(tcase.Input))

			if tcase.ExpErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSyntax)
				assert.True(t, strings.HasPrefix(err.Error(), tcase.ExpErr), err.Error())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tcase.ExpRoutes, routes)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tbl := New(WithLogger(logger))

	n, err := tbl.Load(strings.NewReader("10.0.0.0/8 1\n10.0.0.0/8 2\n10.1.0.0/16 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, tbl.Len())

	val, ok, err := tbl.ExactMatch(mpa("10.0.0.0"), 8)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(2), val)

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(logBuf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		records = append(records, rec)
	}

	require.Len(t, records, 2)
	assert.Equal(t, "route replaced", records[0]["msg"])
	assert.Equal(t, "10.0.0.0/8", records[0]["prefix"])
	assert.Equal(t, float64(1), records[0]["old"])
	assert.Equal(t, "routes loaded", records[1]["msg"])
	assert.Equal(t, float64(2), records[1]["total"])

	// a malformed file leaves the table alone
	_, err = tbl.Load(strings.NewReader("192.168.0.0/16 1\nbogus\n"))
	assert.ErrorIs(t, err, ErrSyntax)
	assert.Equal(t, 2, tbl.Len())
}

func ExampleTable_Load() {
	tbl := New()

	_, err := tbl.Load(strings.NewReader(`
0.0.0.0/0     1
10.0.0.0/8    2
10.1.0.0/16   3
`))
	if err != nil {
		panic(err)
	}

	route, _ := tbl.LongestMatch(netip.MustParseAddr("10.1.2.3"))
	fmt.Println(route.Prefix, route.Value)

	route, _ = tbl.LongestMatch(netip.MustParseAddr("8.8.8.8"))
	fmt.Println(route.Prefix, route.Value)

	// Output:
	// 10.1.0.0/16 3
	// 0.0.0.0/0 1
}
