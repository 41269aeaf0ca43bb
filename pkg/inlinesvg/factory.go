package inlinesvg

import (
	"sort"

	"github.com/go-drift/inlinesvg/pkg/dom"
	"github.com/go-drift/inlinesvg/pkg/fetch"
	"github.com/go-drift/inlinesvg/pkg/uniquify"
)

// PathMap maps logical SVG names to the URLs they are fetched from.
type PathMap map[string]string

// Names returns the map's names in sorted order.
func (m PathMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options configures a Factory.
type Options struct {
	// Fetch customizes requests made for this factory's names. When set (and
	// Fetcher is nil) the factory uses its own HTTP fetcher.
	Fetch fetch.RequestOptions
	// Fetcher overrides the engine's fetcher for this factory.
	Fetcher fetch.Fetcher
	// UniquifyIDs suffixes in-document ids and references of every render.
	UniquifyIDs bool
	// UniqueHash is the suffix used by UniquifyIDs. Empty selects a random
	// 8-character alphanumeric string, fixed for the factory's lifetime.
	UniqueHash string
}

// Factory mounts SVG elements bound to one path map.
type Factory struct {
	engine  *Engine
	paths   PathMap
	names   []string
	fetcher fetch.Fetcher
	uniq    uniquify.Options
}

// Configure binds paths and opts to a Factory.
func (e *Engine) Configure(paths PathMap, opts Options) *Factory {
	own := make(PathMap, len(paths))
	for name, url := range paths {
		own[name] = url
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		if opts.Fetch.Method != "" || len(opts.Fetch.Header) > 0 || opts.Fetch.Timeout > 0 {
			fetcher = fetch.NewHTTP(nil, opts.Fetch)
		} else {
			fetcher = e.fetcher
		}
	}

	hash := opts.UniqueHash
	if hash == "" {
		hash = uniquify.RandomHash(8)
	}

	return &Factory{
		engine:  e,
		paths:   own,
		names:   own.Names(),
		fetcher: fetcher,
		uniq:    uniquify.Options{Enabled: opts.UniquifyIDs, Hash: hash},
	}
}

// Engine returns the engine the factory belongs to.
func (f *Factory) Engine() *Engine { return f.engine }

// Paths returns a copy of the factory's path map.
func (f *Factory) Paths() PathMap {
	out := make(PathMap, len(f.paths))
	for name, url := range f.paths {
		out[name] = url
	}
	return out
}

// knows reports whether name is in the factory's path map. Names cached by
// other factories of the same engine do not count.
func (f *Factory) knows(name string) bool {
	_, ok := f.paths[name]
	return ok
}

// UniqueHash returns the suffix used when uniquifying ids.
func (f *Factory) UniqueHash() string { return f.uniq.Hash }

// Catalog mounts one labelled SVG per name into parent, wrapped in a
// <div class=className>. With useDefault each SVG starts resolving its own
// name immediately; otherwise the SVGs wait for animation signals.
func (f *Factory) Catalog(parent *dom.Element, className string, useDefault bool) []*Instance {
	div := dom.CreateElement("div")
	div.SetAttr("class", className)
	parent.Append(div)

	instances := make([]*Instance, 0, len(f.names))
	for _, name := range f.names {
		section := dom.CreateElement("section")
		section.SetDataset("svgName", name)
		h1 := dom.CreateElement("h1")
		h1.SetTextContent(name)
		section.Append(h1)
		div.Append(section)

		props := Props{}
		if useDefault {
			props.DefaultName = name
		}
		instances = append(instances, f.Mount(section, props))
	}
	return instances
}
