package fetch

import (
	"context"
	"io/fs"
	"path"
	"strings"

	"github.com/go-drift/inlinesvg/pkg/errors"
)

// FS serves files from a file system, such as an embedded icon set.
// The URL is a slash-separated path inside the file system; a leading "/" is
// ignored. Files are typed by extension and run through CheckResponse, so a
// .png is rejected the same way an HTTP image/png response would be.
type FS struct {
	FS fs.FS
}

// NewFS returns a fetcher over fsys.
func NewFS(fsys fs.FS) *FS {
	return &FS{FS: fsys}
}

// Fetch implements Fetcher.
func (f *FS) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &errors.NetworkError{URL: url, Err: err}
	}
	name := strings.TrimPrefix(path.Clean("/"+url), "/")
	data, err := fs.ReadFile(f.FS, name)
	if err != nil {
		return "", &errors.NetworkError{URL: url, Status: 404, Err: err}
	}
	if err := CheckResponse(url, 200, contentTypeByExt(name)); err != nil {
		return "", err
	}
	return string(data), nil
}

func contentTypeByExt(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".svg":
		return "image/svg+xml"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
