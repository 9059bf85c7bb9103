package internal

import (
	"context"
	"strings"
)

// MatchHost gates a middleware behind a host pattern: exact
// ("api.example.com") or wildcard ("*.example.com"). A request whose
// host does not match falls through to later registrations, the same
// way an unmatched pattern does.
func MatchHost(pattern string, mw Middleware) Middleware {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	wildcard := strings.HasPrefix(pattern, "*.")
	if wildcard {
		pattern = pattern[2:]
	}
	return func(ctx context.Context, req *RequestDescriptor, next Next) (*Response, error) {
		host := normalizeHost(req.Host)
		if wildcard {
			if _, domain, ok := strings.Cut(host, "."); !ok || domain != pattern {
				return next(ctx, req)
			}
		} else if host != pattern {
			return next(ctx, req)
		}
		return mw(ctx, req, next)
	}
}

// Subdomain extracts the subdomain of host relative to baseDomain, or
// "" when host is the base domain itself or unrelated to it.
func Subdomain(host, baseDomain string) string {
	host = normalizeHost(host)
	base := strings.ToLower(baseDomain)
	if host == base {
		return ""
	}
	suffix := "." + base
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	return strings.TrimSuffix(host, suffix)
}

// normalizeHost strips the port (IPv6-aware) and lowercases.
func normalizeHost(host string) string {
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		if !strings.Contains(host[idx:], "]") {
			host = host[:idx]
		}
	}
	return strings.ToLower(host)
}
