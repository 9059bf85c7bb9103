package internal

import (
	"net/url"
	"regexp"

	"github.com/blurname/farrow/pkg/schema"
)

// RequestDescriptor is the transport-agnostic input to a router run:
// raw textual fields plus an already JSON-typed body. It is built once
// by the HTTP adapter (or a test) and treated as immutable.
type RequestDescriptor struct {
	Pathname string
	Method   string
	Host     string
	Query    url.Values
	Headers  map[string]string
	Cookies  map[string]string
	Body     any
}

// ValidatedRequest mirrors RequestDescriptor with every declared
// category replaced by its coerced, typed value. Handlers consume this.
type ValidatedRequest struct {
	Pathname string
	Method   string
	Params   map[string]any
	Query    map[string]any
	Headers  map[string]any
	Cookies  map[string]any
	Body     any
}

// RouteSchema is the lower-level route declaration: a pathname (template
// string or compiled regular expression) plus per-category descriptors.
// Route templates compiled by Router.Match normalize to the same form.
type RouteSchema struct {
	// Pathname is a route template. Ignored when Regexp is set.
	Pathname string

	// Regexp matches the pathname by the expression's own semantics and
	// produces no named captures.
	Regexp *regexp.Regexp

	// Method restricts the HTTP method; empty matches any. Comparison is
	// case-insensitive.
	Method string

	// Per-category descriptors. A nil category passes through
	// unvalidated.
	Params  schema.Type
	Query   schema.Type
	Headers schema.Type
	Cookies schema.Type
	Body    schema.Type
}

// merge overlays extra's declared fields onto a copy of rs. Struct
// categories merge field lists; any other descriptor pair resolves to
// extra's.
func (rs *RouteSchema) merge(extra *RouteSchema) *RouteSchema {
	out := *rs
	if extra == nil {
		return &out
	}
	if extra.Method != "" {
		out.Method = extra.Method
	}
	out.Params = mergeTypes(out.Params, extra.Params)
	out.Query = mergeTypes(out.Query, extra.Query)
	out.Headers = mergeTypes(out.Headers, extra.Headers)
	out.Cookies = mergeTypes(out.Cookies, extra.Cookies)
	if extra.Body != nil {
		out.Body = extra.Body
	}
	return &out
}

func mergeTypes(base, extra schema.Type) schema.Type {
	if extra == nil {
		return base
	}
	if base == nil {
		return extra
	}
	bs, bok := base.(*schema.StructType)
	es, eok := extra.(*schema.StructType)
	if !bok || !eok {
		return extra
	}
	fields := make([]schema.Field, 0, len(bs.Fields)+len(es.Fields))
	fields = append(fields, bs.Fields...)
	for _, f := range es.Fields {
		replaced := false
		for i, existing := range fields {
			if existing.Name == f.Name {
				fields[i] = f
				replaced = true
				break
			}
		}
		if !replaced {
			fields = append(fields, f)
		}
	}
	return schema.Struct(fields...)
}
