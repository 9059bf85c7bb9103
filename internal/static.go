package internal

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Serve registers a static file rule: requests under prefix are mapped
// into dir and answered with a file response when the target exists.
// Missing files, directories, and traversal attempts fall through to
// later registrations.
func (r *Router) Serve(prefix, dir string) *Router {
	prefix = normalizePrefix(prefix)
	r.pl.Use(func(ctx context.Context, req *RequestDescriptor, next Next) (*Response, error) {
		rest, ok := stripPrefix(req.Pathname, prefix)
		if !ok {
			return next(ctx, req)
		}
		full, ok := resolveStatic(dir, rest)
		if !ok {
			return next(ctx, req)
		}
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			return next(ctx, req)
		}
		return File(full), nil
	})
	return r
}

// resolveStatic joins the request path into dir, rejecting anything
// that would escape it.
func resolveStatic(dir, rest string) (string, bool) {
	cleaned := path.Clean("/" + rest)
	if cleaned == "/" || strings.Contains(cleaned, "..") {
		return "", false
	}
	return filepath.Join(dir, filepath.FromSlash(cleaned)), true
}
