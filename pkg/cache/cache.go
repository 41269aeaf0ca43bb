// Package cache holds parsed SVG content by logical name.
package cache

import (
	"sort"

	"github.com/go-drift/inlinesvg/pkg/svgtext"
)

// Cache maps logical SVG names to parsed content.
//
// Entries are written once, on the first successful fetch of a name, and are
// never replaced or evicted. A Cache is owned by one engine and is only
// touched from that engine's event loop, so it carries no lock.
type Cache struct {
	items map[string]svgtext.Entry
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{items: make(map[string]svgtext.Entry)}
}

// Get returns the entry for name.
func (c *Cache) Get(name string) (svgtext.Entry, bool) {
	e, ok := c.items[name]
	return e, ok
}

// Has reports whether name is cached.
func (c *Cache) Has(name string) bool {
	_, ok := c.items[name]
	return ok
}

// Put stores e under name unless an entry already exists. It reports whether
// e was stored.
func (c *Cache) Put(name string, e svgtext.Entry) bool {
	if _, ok := c.items[name]; ok {
		return false
	}
	c.items[name] = e
	return true
}

// Len returns the number of cached names.
func (c *Cache) Len() int { return len(c.items) }

// Names returns the cached names in sorted order.
func (c *Cache) Names() []string {
	names := make([]string, 0, len(c.items))
	for name := range c.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset drops every entry. Only test harnesses should need this.
func (c *Cache) Reset() {
	c.items = make(map[string]svgtext.Entry)
}
