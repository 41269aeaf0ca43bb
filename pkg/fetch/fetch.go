// Package fetch retrieves SVG source text for inlinesvg.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/go-drift/inlinesvg/pkg/errors"
)

// Fetcher returns the body of the resource at url as text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

var contentTypeSep = regexp.MustCompile(` ?; ?`)

// acceptedTypes are the MIME types a response may carry.
var acceptedTypes = []string{"image/svg+xml", "text/plain"}

// CheckResponse applies the response contract: a status above 299 is a
// NetworkError, and the MIME type (the part of contentType before any ";")
// must contain image/svg+xml or text/plain, compared case-sensitively.
func CheckResponse(url string, status int, contentType string) error {
	if status > 299 {
		return &errors.NetworkError{URL: url, Status: status}
	}
	fileType := contentTypeSep.Split(contentType, 2)[0]
	for _, t := range acceptedTypes {
		if strings.Contains(fileType, t) {
			return nil
		}
	}
	return &errors.ContentTypeError{URL: url, ContentType: fileType}
}

// RequestOptions customizes outgoing requests.
type RequestOptions struct {
	// Method defaults to GET.
	Method string
	// Header is added to every request.
	Header http.Header
	// Timeout bounds a single request. Zero leaves the client's default.
	Timeout time.Duration
}

// HTTP fetches over HTTP. Concurrent requests for the same URL share one
// round trip.
type HTTP struct {
	client  *http.Client
	options RequestOptions
	group   singleflight.Group
}

// NewHTTP returns an HTTP fetcher. A nil client uses http.DefaultClient.
func NewHTTP(client *http.Client, opts RequestOptions) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{client: client, options: opts}
}

// Fetch implements Fetcher.
func (h *HTTP) Fetch(ctx context.Context, url string) (string, error) {
	v, err, _ := h.group.Do(url, func() (any, error) {
		return h.do(ctx, url)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (h *HTTP) do(ctx context.Context, url string) (string, error) {
	if h.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.options.Timeout)
		defer cancel()
	}

	method := h.options.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return "", &errors.NetworkError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	for k, vs := range h.options.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", &errors.NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if err := CheckResponse(url, resp.StatusCode, resp.Header.Get("Content-Type")); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &errors.NetworkError{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return string(body), nil
}
