package inlinesvg

import (
	"context"
	"sort"
	"strings"

	"github.com/go-drift/inlinesvg/pkg/dom"
	"github.com/go-drift/inlinesvg/pkg/errors"
	"github.com/go-drift/inlinesvg/pkg/uniquify"
)

// Dataset keys and values of the element state machine.
const (
	datasetName       = "svgName"
	datasetStatus     = "svgStatus"
	datasetAttributes = "attributeNames"

	// StatusLoading marks an element whose SVG is being fetched.
	StatusLoading = "loading"
	// StatusComplete marks an element showing its SVG (or a sentinel).
	StatusComplete = "complete"
	// StatusError marks an element whose last resolve failed.
	StatusError = "error"
)

// Props are the host-supplied inputs of one element.
type Props struct {
	// DefaultName is resolved on mount instead of waiting for a signal.
	// Only read at mount time.
	DefaultName string
	// Title is rendered as a leading <title> child.
	Title string
	// Description is rendered as a leading <desc> child, before the title.
	Description string
	// OnLoad is called after each render with the source URL. hasCache is
	// false only for the element whose request populated the cache.
	OnLoad func(src string, hasCache bool)
	// OnError receives every failure for this element. Without it failures
	// go to the global error handler.
	OnError func(err error)
	// Attrs are extra attributes for the <svg> skeleton, such as class.
	// Only read at mount time.
	Attrs map[string]string
}

// Instance is one mounted SVG element.
type Instance struct {
	factory *Factory
	engine  *Engine
	el      *dom.Element
	props   Props

	// target is the name most recently resolved, used to skip stale fetch
	// results for elements that moved on.
	target   string
	removed  bool
	unmount  bool
	stopFeed context.CancelFunc
}

// Mount creates an element under parent and starts its lifecycle.
func (f *Factory) Mount(parent *dom.Element, props Props) *Instance {
	e := f.engine
	inst := &Instance{
		factory: f,
		engine:  e,
		el:      dom.CreateSVGElement("svg"),
		props:   props,
	}

	e.setupStyle(f.names)

	if props.DefaultName == NameNull {
		inst.removed = true
		return inst
	}

	if IsEmptyName(props.DefaultName) {
		inst.el.SetDataset(datasetName, props.DefaultName)
		inst.el.SetDataset(datasetStatus, StatusComplete)
		inst.target = props.DefaultName
	} else {
		inst.el.SetAttr("aria-busy", "true")
	}
	keys := make([]string, 0, len(props.Attrs))
	for k := range props.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		inst.el.SetAttr(k, props.Attrs[k])
	}
	if parent != nil {
		parent.Append(inst.el)
	}

	switch {
	case props.DefaultName == "":
		e.enqueueStart(inst)
	case !IsEmptyName(props.DefaultName):
		inst.Resolve(props.DefaultName)
	}
	return inst
}

// Element returns the instance's <svg> element.
func (i *Instance) Element() *dom.Element { return i.el }

// Rendered reports whether the element is part of the tree. It is false
// after the NULL sentinel or Unmount.
func (i *Instance) Rendered() bool { return !i.removed && !i.unmount }

// Name returns the element's data-svg-name.
func (i *Instance) Name() string {
	v, _ := i.el.Dataset(datasetName)
	return v
}

// Status returns the element's data-svg-status.
func (i *Instance) Status() string {
	v, _ := i.el.Dataset(datasetStatus)
	return v
}

// SetProps replaces the instance's props and refreshes title and
// description. DefaultName and Attrs are ignored after mount.
func (i *Instance) SetProps(props Props) {
	props.DefaultName = i.props.DefaultName
	props.Attrs = i.props.Attrs
	i.props = props
	if i.Rendered() {
		updateTextNode(i.el, props.Title, props.Description)
	}
}

// HandleAnimationStart interprets an animation-start signal. It returns
// false, leaving the event to propagate, when the animation does not carry
// an SVG name.
func (i *Instance) HandleAnimationStart(ev AnimationEvent) bool {
	name, ok := NameFromAnimation(ev.Name)
	if !ok {
		return false
	}
	if i.Rendered() {
		i.Resolve(name)
	}
	return true
}

// Listen feeds animation events from any goroutine into the instance. It
// stops when ctx is done, events is closed or the instance is unmounted.
func (i *Instance) Listen(ctx context.Context, events <-chan AnimationEvent) {
	ctx, cancel := context.WithCancel(ctx)
	if i.stopFeed != nil {
		i.stopFeed()
	}
	i.stopFeed = cancel
	sched := i.engine.sched
	go func() {
		defer errors.Recover("inlinesvg.listen")
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				sched.Post(func() {
					if ctx.Err() == nil {
						i.HandleAnimationStart(ev)
					}
				})
			}
		}
	}()
}

// Unmount detaches the element and stops Listen. Batches that already hold
// the element may still write to it; writes to a detached element are
// harmless.
func (i *Instance) Unmount() {
	if i.stopFeed != nil {
		i.stopFeed()
		i.stopFeed = nil
	}
	i.unmount = true
	i.el.Remove()
}

// Resolve shows name in the element. Failures are delivered to OnError.
func (i *Instance) Resolve(name string) {
	if !i.Rendered() {
		return
	}
	i.target = name
	e := i.engine
	switch {
	case name == NameNull:
		i.removed = true
		i.el.Remove()
	case IsEmptyName(name):
		i.renderEmpty(name)
	case !i.factory.knows(name):
		report("inlinesvg.resolve", name, i.props.OnError, &errors.UnknownNameError{Name: name})
		i.markError(name)
	case e.cache.Has(name):
		i.renderFromCache(name, i.factory.paths[name], true)
	default:
		e.resolveByFetch(i, name)
	}
}

func (i *Instance) renderEmpty(name string) {
	el := i.el
	i.engine.enqueueRender(func() {
		resetAttributes(el)
		el.SetDataset(datasetName, name)
		el.SetDataset(datasetStatus, StatusComplete)
		el.RemoveAttr("aria-busy")
		_ = el.SetInnerHTML("")
	})
}

func (i *Instance) renderFromCache(name, src string, hasCache bool) {
	el := i.el
	e := i.engine
	e.enqueueRender(func() {
		entry, ok := e.cache.Get(name)
		if !ok {
			return
		}
		resetAttributes(el)
		names := make([]string, 0, len(entry.Attributes))
		for _, a := range entry.Attributes {
			el.SetAttr(a.Name, a.Value)
			names = append(names, a.Name)
		}
		el.SetDataset(datasetName, name)
		el.SetDataset(datasetStatus, StatusComplete)
		el.SetDataset(datasetAttributes, strings.Join(names, " "))
		el.RemoveAttr("aria-busy")
		if err := el.SetInnerHTML(entry.Content); err != nil {
			report("inlinesvg.render", name, i.props.OnError, err)
		}
		updateTextNode(el, i.props.Title, i.props.Description)
		uniquify.Apply(el.Node(), i.factory.uniq)
		if i.props.OnLoad != nil {
			i.props.OnLoad(src, hasCache)
		}
	})
}

func (i *Instance) markLoading(name string) {
	resetAttributes(i.el)
	i.el.SetDataset(datasetName, name)
	i.el.SetDataset(datasetStatus, StatusLoading)
	i.el.SetAttr("aria-busy", "true")
	_ = i.el.SetInnerHTML("")
}

func (i *Instance) markError(name string) {
	i.el.SetDataset(datasetName, name)
	i.el.SetDataset(datasetStatus, StatusError)
	i.el.RemoveAttr("aria-busy")
}

// resetAttributes removes the attributes applied by the previous render.
func resetAttributes(el *dom.Element) {
	names, ok := el.Dataset(datasetAttributes)
	if !ok {
		return
	}
	if names != "" {
		for _, name := range strings.Split(names, " ") {
			el.RemoveAttr(name)
		}
	}
	el.RemoveDataset(datasetAttributes)
}

// updateTextNode prepends <desc> and then <title>, each replacing an existing
// element of the same tag. Empty-sentinel elements never get text nodes.
func updateTextNode(el *dom.Element, title, description string) {
	name, _ := el.Dataset(datasetName)
	if IsEmptyName(name) {
		return
	}
	if description != "" {
		if old := el.QuerySelector("desc"); old != nil {
			old.Remove()
		}
		desc := dom.CreateSVGElement("desc")
		desc.SetTextContent(description)
		el.Prepend(desc)
	}
	if title != "" {
		if old := el.QuerySelector("title"); old != nil {
			old.Remove()
		}
		t := dom.CreateSVGElement("title")
		t.SetTextContent(title)
		el.Prepend(t)
	}
}
