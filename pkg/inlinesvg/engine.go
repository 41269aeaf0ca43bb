// Package inlinesvg swaps inline SVG markup inside elements in response to
// name signals, without rebuilding the host component.
//
// # Overview
//
// A host renders an empty <svg> skeleton and assigns CSS such as
//
//	.button:hover svg { animation-name: svg_ArrowIcon; }
//
// When the browser (or any other signal source) reports the animation start,
// [Instance.HandleAnimationStart] turns the animation name into a logical SVG
// name and resolves it:
//
//   - cached names are rendered on the next frame-aligned batch
//   - uncached names are fetched once, however many elements ask for them,
//     with distinct names grouped into timer-driven fetch batches
//   - the sentinels NONE and HIDDEN render an empty element, NULL removes it
//
// # Threading
//
// An [Engine] and everything it creates belong to one event loop (see package
// loop). Mount, Resolve, SetProps, HandleAnimationStart and Unmount must be
// called on that loop; use [Instance.Listen] or the scheduler's Post to feed
// signals from other goroutines.
package inlinesvg

import (
	"context"

	"github.com/go-drift/inlinesvg/pkg/aggregate"
	"github.com/go-drift/inlinesvg/pkg/cache"
	"github.com/go-drift/inlinesvg/pkg/dom"
	"github.com/go-drift/inlinesvg/pkg/errors"
	"github.com/go-drift/inlinesvg/pkg/fetch"
	"github.com/go-drift/inlinesvg/pkg/loop"
)

// DefaultRenderUnit is the number of element updates committed per frame.
const DefaultRenderUnit = 32

// Config configures an Engine. Zero values select the defaults.
type Config struct {
	// Scheduler is the event loop. Defaults to a new loop.Loop, which the
	// caller must run (see Engine.Scheduler).
	Scheduler loop.Scheduler
	// Fetcher retrieves SVG text. Defaults to an HTTP fetcher on
	// http.DefaultClient.
	Fetcher fetch.Fetcher
	// Document receives the keyframes style. Nil skips style injection.
	Document *dom.Document
	// Context bounds every fetch. Defaults to context.Background.
	Context context.Context
	// Fetch tunes fetch batching (default 16ms, 16 names per batch).
	Fetch aggregate.Options
	// Render tunes render batching (default 16ms, DefaultRenderUnit per frame).
	Render aggregate.Options
	// FetchConcurrency caps simultaneous requests within one batch. Zero
	// issues every request of the batch at once.
	FetchConcurrency int
}

type fetchRequest struct {
	name     string
	instance *Instance
}

// Engine owns the state shared by every SVG element: the content cache, the
// per-name queues of elements waiting on a fetch, and the start, fetch and
// render aggregation queues.
//
// Create one Engine per application. Independent engines share nothing,
// which is how tests isolate themselves.
type Engine struct {
	sched            loop.Scheduler
	fetcher          fetch.Fetcher
	doc              *dom.Document
	ctx              context.Context
	fetchOpts        aggregate.Options
	renderOpts       aggregate.Options
	fetchConcurrency int

	cache   *cache.Cache
	pending map[string][]*Instance

	start   aggregate.Queue[*Instance]
	fetches aggregate.Queue[fetchRequest]
	render  aggregate.Queue[func()]

	setupCompleted bool
	styled         map[string]struct{}
}

// NewEngine creates an engine.
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		sched:            cfg.Scheduler,
		fetcher:          cfg.Fetcher,
		doc:              cfg.Document,
		ctx:              cfg.Context,
		fetchOpts:        cfg.Fetch,
		renderOpts:       cfg.Render,
		fetchConcurrency: cfg.FetchConcurrency,
		cache:            cache.New(),
		pending:          make(map[string][]*Instance),
		styled:           make(map[string]struct{}),
	}
	if e.sched == nil {
		e.sched = loop.New()
	}
	if e.fetcher == nil {
		e.fetcher = fetch.NewHTTP(nil, fetch.RequestOptions{})
	}
	if e.ctx == nil {
		e.ctx = context.Background()
	}
	if e.renderOpts.Unit <= 0 {
		e.renderOpts.Unit = DefaultRenderUnit
	}
	return e
}

// Scheduler returns the engine's event loop.
func (e *Engine) Scheduler() loop.Scheduler { return e.sched }

// Cache returns the content cache.
func (e *Engine) Cache() *cache.Cache { return e.cache }

// Document returns the document receiving the keyframes style, if any.
func (e *Engine) Document() *dom.Document { return e.doc }

// Pending returns how many elements are waiting on name's fetch.
func (e *Engine) Pending(name string) int { return len(e.pending[name]) }

// Reset returns the engine to its initial state. Work already scheduled on
// the loop still runs but finds empty queues. Only test harnesses should need
// this.
func (e *Engine) Reset() {
	e.cache.Reset()
	e.pending = make(map[string][]*Instance)
	e.start.Reset()
	e.fetches.Reset()
	e.render.Reset()
	e.setupCompleted = false
	e.styled = make(map[string]struct{})
}

// setupStyle injects the keyframes style on first use, and again whenever a
// factory brings names that have no rule yet.
func (e *Engine) setupStyle(names []string) {
	if e.setupCompleted {
		missing := false
		for _, name := range names {
			if _, ok := e.styled[name]; !ok {
				missing = true
				break
			}
		}
		if !missing {
			return
		}
	}
	e.setupCompleted = true
	for _, name := range names {
		e.styled[name] = struct{}{}
	}
	if e.doc == nil {
		return
	}

	if existing := e.doc.QuerySelector("#" + StyleID); existing != nil {
		existing.Remove()
	}
	all := make([]string, 0, len(e.styled))
	for name := range e.styled {
		all = append(all, name)
	}
	style := dom.CreateElement("style")
	style.SetAttr("id", StyleID)
	style.SetTextContent(Keyframes(all))
	e.doc.Head().Append(style)
}

// enqueueStart joins the initial-paint queue, which flips fresh elements to
// loading in one batch. Elements that already have a status were resolved
// before their batch ran and are left alone.
func (e *Engine) enqueueStart(inst *Instance) {
	aggregate.Push(e.sched, &e.start, inst, func(list []*Instance) {
		for _, inst := range list {
			if inst.Rendered() && inst.Status() == "" {
				inst.el.SetDataset(datasetStatus, StatusLoading)
			}
		}
	}, aggregate.Options{})
}

// enqueueRender joins the render queue. Each batch commits inside one
// animation frame.
func (e *Engine) enqueueRender(render func()) {
	aggregate.Push(e.sched, &e.render, render, func(list []func()) {
		e.sched.RequestFrame(func() {
			for _, render := range list {
				render()
			}
		})
	}, e.renderOpts)
}

// report delivers err to onError, or to the global error handler when the
// consumer did not register one.
func report(op, name string, onError func(error), err error) {
	if onError != nil {
		onError(err)
		return
	}
	errors.Report(&errors.InlineError{
		Op:   op,
		Kind: errors.KindOf(err),
		Name: name,
		Err:  err,
	})
}
