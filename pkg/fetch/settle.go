package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/go-drift/inlinesvg/pkg/errors"
)

// Request pairs a URL with the fetcher that should retrieve it.
type Request struct {
	URL     string
	Fetcher Fetcher
}

// Result is the settled outcome of one fetch.
type Result struct {
	URL  string
	Body string
	Err  error
}

// SettleAll fetches every url with f. See SettleRequests.
func SettleAll(ctx context.Context, f Fetcher, urls []string, limit int) []Result {
	reqs := make([]Request, len(urls))
	for i, url := range urls {
		reqs[i] = Request{URL: url, Fetcher: f}
	}
	return SettleRequests(ctx, reqs, limit)
}

// SettleRequests runs every request concurrently and waits for all of them.
//
// Each result is independent: a failure, or a panic inside a fetcher, only
// affects its own slot and never cancels siblings. Results are returned in
// input order. limit caps concurrency; zero or less means unbounded.
func SettleRequests(ctx context.Context, reqs []Request, limit int) []Result {
	results := make([]Result, len(reqs))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = fetchOne(ctx, req)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func fetchOne(ctx context.Context, req Request) (res Result) {
	res.URL = req.URL
	defer func() {
		if r := recover(); r != nil {
			res.Err = &errors.SettleError{Value: r}
		}
	}()
	if req.Fetcher == nil {
		res.Err = &errors.SettleError{}
		return res
	}
	res.Body, res.Err = req.Fetcher.Fetch(ctx, req.URL)
	return res
}
