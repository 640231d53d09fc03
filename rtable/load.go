package rtable

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/netip"
	"strconv"
	"strings"
)

// ErrSyntax indicates a malformed line in a routes file.
var ErrSyntax = errors.New("rtable: syntax error")

// ParseRoutes reads routes, one "prefix value" pair per line. Blank lines
// and everything after a '#' are ignored. Host bits of a prefix are kept,
// the table ignores them.
func ParseRoutes(r io.Reader) ([]Route, error) {
	var (
		routes []Route
		scan   = bufio.NewScanner(r)
		lineNo = 0
	)

	for scan.Scan() {
		lineNo++

		line := scan.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		fields := strings.Fields(line)
		switch len(fields) {
		case 0:
			continue
		case 2:
		default:
			return nil, fmt.Errorf("%w: line %d: want \"prefix value\", got %q", ErrSyntax, lineNo, line)
		}

		pfx, err := netip.ParsePrefix(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, lineNo, err)
		}

		val, err := strconv.ParseUint(fields[1], 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, lineNo, err)
		}

		routes = append(routes, Route{Prefix: pfx, Value: uint32(val)})
	}

	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("rtable: read routes: %w", err)
	}

	return routes, nil
}

// Load parses routes from r and adds them all under a single lock. Nothing
// is added if any line is malformed. It returns the number of routes added
// or replaced.
func (t *Table) Load(r io.Reader) (int, error) {
	routes, err := ParseRoutes(r)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	replaced := 0

	for _, route := range routes {
		pfx := route.Prefix

		prev, existed, err := t.tbl.Insert(pfx.Addr(), pfx.Bits(), route.Value)
		if err != nil {
			// netip.ParsePrefix only returns valid prefixes
			return 0, fmt.Errorf("rtable: add %s: %w", pfx, err)
		}

		if existed {
			replaced++
			t.debug("route replaced", slog.String("prefix", pfx.Masked().String()),
				slog.Uint64("old", uint64(prev)), slog.Uint64("new", uint64(route.Value)))
		}
	}

	t.info("routes loaded", slog.Int("lines", len(routes)), slog.Int("replaced", replaced),
		slog.Int("total", t.tbl.Len()))

	return len(routes), nil
}

func (t *Table) debug(msg string, attrs ...slog.Attr) {
	if t.log != nil {
		t.log.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
	}
}

func (t *Table) info(msg string, attrs ...slog.Attr) {
	if t.log != nil {
		t.log.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
	}
}
