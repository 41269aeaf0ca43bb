package testing

import (
	"context"
	"sync"

	"github.com/go-drift/inlinesvg/pkg/errors"
)

// FakeFetcher serves canned bodies and records every request.
// All methods are safe for concurrent use.
type FakeFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
	panics map[string]any
	calls  map[string]int
	order  []string
}

// NewFakeFetcher returns a fetcher serving bodies keyed by URL. Unknown URLs
// fail with a 404 NetworkError.
func NewFakeFetcher(bodies map[string]string) *FakeFetcher {
	f := &FakeFetcher{
		bodies: make(map[string]string),
		errs:   make(map[string]error),
		panics: make(map[string]any),
		calls:  make(map[string]int),
	}
	for url, body := range bodies {
		f.bodies[url] = body
	}
	return f
}

// SetBody serves body for url and clears any configured failure.
func (f *FakeFetcher) SetBody(url, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[url] = body
	delete(f.errs, url)
	delete(f.panics, url)
}

// SetError makes requests for url fail with err.
func (f *FakeFetcher) SetError(url string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[url] = err
}

// SetPanic makes requests for url panic with v.
func (f *FakeFetcher) SetPanic(url string, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.panics[url] = v
}

// Fetch implements fetch.Fetcher.
func (f *FakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.calls[url]++
	f.order = append(f.order, url)
	body, hasBody := f.bodies[url]
	err := f.errs[url]
	p, hasPanic := f.panics[url]
	f.mu.Unlock()

	if hasPanic {
		panic(p)
	}
	if err := ctx.Err(); err != nil {
		return "", &errors.NetworkError{URL: url, Err: err}
	}
	if err != nil {
		return "", err
	}
	if !hasBody {
		return "", &errors.NetworkError{URL: url, Status: 404}
	}
	return body, nil
}

// Calls returns how many times url was requested.
func (f *FakeFetcher) Calls(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

// TotalCalls returns the number of requests across all URLs.
func (f *FakeFetcher) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.order)
}

// Requests returns every requested URL in arrival order.
func (f *FakeFetcher) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...)
}
