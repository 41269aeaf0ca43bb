package inlinesvg

import (
	"github.com/go-drift/inlinesvg/pkg/aggregate"
	"github.com/go-drift/inlinesvg/pkg/errors"
	"github.com/go-drift/inlinesvg/pkg/fetch"
	"github.com/go-drift/inlinesvg/pkg/svgtext"
)

// resolveByFetch handles a known name that is not cached yet.
//
// Every requester is parked in the name's pending queue; only the first one
// enters the fetch queue, so a name is requested at most once per flight no
// matter how many elements ask for it.
func (e *Engine) resolveByFetch(inst *Instance, name string) {
	inst.markLoading(name)
	if queued, ok := e.pending[name]; ok {
		e.pending[name] = append(queued, inst)
		return
	}
	e.pending[name] = []*Instance{inst}

	aggregate.Push(e.sched, &e.fetches, fetchRequest{name: name, instance: inst}, e.runFetchBatch, e.fetchOpts)
}

// runFetchBatch issues one request per queued name and settles them all off
// the loop; results are applied back on the loop in queue order. If the batch
// itself panics, every name in it fails with a settle error.
func (e *Engine) runFetchBatch(batch []fetchRequest) {
	ctx := e.ctx
	limit := e.fetchConcurrency
	e.sched.Go(func() (cont func()) {
		defer errors.RecoverWithCallback("inlinesvg.fetch", func(any) {
			cont = func() { e.completeFetchBatch(batch, nil) }
		})
		reqs := make([]fetch.Request, len(batch))
		for i, r := range batch {
			f := r.instance.factory
			reqs[i] = fetch.Request{URL: f.paths[r.name], Fetcher: f.fetcher}
		}
		results := fetch.SettleRequests(ctx, reqs, limit)
		return func() {
			e.completeFetchBatch(batch, results)
		}
	})
}

func (e *Engine) completeFetchBatch(batch []fetchRequest, results []fetch.Result) {
	for i, r := range batch {
		if i >= len(results) {
			err := &errors.SettleError{}
			e.failFetch(r, err)
			continue
		}
		res := results[i]
		if res.Err != nil {
			e.failFetch(r, res.Err)
			continue
		}

		// Elements that moved on to another name while the fetch was in
		// flight are skipped; the first element rendered caused the cache
		// entry and reports hasCache=false.
		e.cache.Put(r.name, svgtext.Parse(res.Body))
		src := res.URL
		queued := e.pending[r.name]
		delete(e.pending, r.name)
		hasCache := false
		for _, inst := range queued {
			if inst.target != r.name {
				continue
			}
			inst.renderFromCache(r.name, src, hasCache)
			hasCache = true
		}
	}
}

// failFetch reports err to the requester whose entry was fetched. Every
// element still waiting on the name moves to the error state and the queue
// is dropped, so the next resolve of the name fetches again.
func (e *Engine) failFetch(r fetchRequest, err error) {
	report("inlinesvg.fetch", r.name, r.instance.props.OnError, err)

	queued := e.pending[r.name]
	delete(e.pending, r.name)
	for _, inst := range queued {
		if inst.target == r.name {
			inst.markError(r.name)
		}
	}
}
