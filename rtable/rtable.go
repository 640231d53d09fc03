// Package rtable is a routing table guarded by a single mutex, mapping
// IPv4 and IPv6 prefixes to uint32 values.
//
// Every call holds the lock for its full duration, so there is at most one
// operation in flight per table and readers block writers and vice versa.
// Distinct tables share nothing.
package rtable

import (
	"log/slog"
	"net/netip"
	"sync"

	"github.com/aglyzov/go-lpm/treebitmap"
)

// Route is a prefix and its value.
type Route struct {
	Prefix netip.Prefix `json:"prefix"`
	Value  uint32       `json:"value"`
}

// Table is a concurrency-safe longest-prefix-match table.
type Table struct {
	mu  sync.Mutex
	tbl *treebitmap.Table[uint32]
	log *slog.Logger
}

// Option configures a Table.
type Option func(*config)

type config struct {
	capacity int
	logger   *slog.Logger
}

// WithCapacity reserves storage for n expected routes.
func WithCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// WithLogger sets a logger for Load. Tables do not log by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// New returns an empty table.
func New(opts ...Option) *Table {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Table{
		tbl: treebitmap.WithCapacity[uint32](cfg.capacity),
		log: cfg.logger,
	}
}

// Len returns the number of routes.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.tbl.Len()
}

// Add inserts or replaces the route addr/plen and returns the replaced value.
func (t *Table) Add(addr netip.Addr, plen int, val uint32) (prev uint32, existed bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.tbl.Insert(addr, plen, val)
}

// Remove deletes the route addr/plen and returns its value.
func (t *Table) Remove(addr netip.Addr, plen int) (val uint32, ok bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.tbl.Remove(addr, plen)
}

// LongestMatch returns the most specific route containing addr.
func (t *Table) LongestMatch(addr netip.Addr) (Route, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pfx, val, ok := t.tbl.LongestMatch(addr)

	return Route{Prefix: pfx, Value: val}, ok
}

// ExactMatch returns the value of the route addr/plen.
func (t *Table) ExactMatch(addr netip.Addr, plen int) (val uint32, ok bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.tbl.ExactMatch(addr, plen)
}

// Memory returns the number of node and result slots held by the table.
func (t *Table) Memory() (nodes, results int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.tbl.MemUsage()
}

// Routes returns a snapshot of all routes, IPv4 first.
func (t *Table) Routes() []Route {
	t.mu.Lock()
	defer t.mu.Unlock()

	routes := make([]Route, 0, t.tbl.Len())

	t.tbl.Walk(func(pfx netip.Prefix, val uint32) bool {
		routes = append(routes, Route{Prefix: pfx, Value: val})
		return true
	})

	return routes
}
