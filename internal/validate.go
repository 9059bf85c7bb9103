package internal

import (
	"github.com/blurname/farrow/pkg/pattern"
	"github.com/blurname/farrow/pkg/schema"
)

// validateRequest combines the matcher's raw captures with the route's
// declared schemas into one typed request. Each category validates
// independently; undeclared categories pass through unvalidated.
// Validation failure here is a committed failure for the route, never a
// fallthrough.
func validateRequest(rs *RouteSchema, compiled *pattern.Pattern, caps map[string]any, req *RequestDescriptor) (*ValidatedRequest, error) {
	params, err := validateParams(rs, compiled, caps)
	if err != nil {
		return nil, err
	}

	query, err := validateQuery(rs, compiled, req)
	if err != nil {
		return nil, err
	}

	headers, err := validateTextual("headers", rs.Headers, req.Headers)
	if err != nil {
		return nil, err
	}

	cookies, err := validateTextual("cookies", rs.Cookies, req.Cookies)
	if err != nil {
		return nil, err
	}

	body := req.Body
	if rs.Body != nil {
		body, err = schema.Validate(rs.Body, req.Body)
		if err != nil {
			return nil, prependCategory("body", err)
		}
	}

	return &ValidatedRequest{
		Pathname: req.Pathname,
		Method:   req.Method,
		Params:   params,
		Query:    query,
		Headers:  headers,
		Cookies:  cookies,
		Body:     body,
	}, nil
}

// validateParams coerces the pattern's captures segment by segment, then
// overlays any extra Params descriptor declared on the schema.
func validateParams(rs *RouteSchema, compiled *pattern.Pattern, caps map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(caps))

	for _, seg := range compiled.Segments {
		if seg.Kind != pattern.SegmentParam {
			continue
		}
		raw, present := caps[seg.Name]
		if !present {
			// Absent optional or zero-or-more capture.
			continue
		}
		switch v := raw.(type) {
		case string:
			typed, err := schema.Validate(seg.Type, v)
			if err != nil {
				return nil, prependCategory("params", err)
			}
			out[seg.Name] = typed
		case []string:
			list := make([]any, 0, len(v))
			for _, elem := range v {
				typed, err := schema.Validate(seg.Type, elem)
				if err != nil {
					return nil, prependCategory("params", err)
				}
				list = append(list, typed)
			}
			out[seg.Name] = list
		}
	}

	if rs.Params != nil {
		extra, err := schema.Validate(rs.Params, caps)
		if err != nil {
			return nil, prependCategory("params", err)
		}
		if m, ok := extra.(map[string]any); ok {
			for k, v := range m {
				out[k] = v
			}
		}
	}
	return out, nil
}

// validateQuery resolves the pattern's query constraints, then overlays
// any extra Query descriptor. Static constraint values stay strings.
func validateQuery(rs *RouteSchema, compiled *pattern.Pattern, req *RequestDescriptor) (map[string]any, error) {
	out := make(map[string]any, len(compiled.Query))

	for key, qc := range compiled.Query {
		switch qc.Kind {
		case pattern.QueryStatic:
			out[key] = qc.Value
		case pattern.QueryDynamic:
			typed, err := schema.Validate(qc.Type, req.Query.Get(key))
			if err != nil {
				return nil, prependCategory("query", err)
			}
			out[key] = typed
		}
	}

	if rs.Query != nil {
		raw := make(map[string]any, len(req.Query))
		for k := range req.Query {
			raw[k] = req.Query.Get(k)
		}
		extra, err := schema.Validate(rs.Query, raw)
		if err != nil {
			return nil, prependCategory("query", err)
		}
		if m, ok := extra.(map[string]any); ok {
			for k, v := range m {
				out[k] = v
			}
		}
	}
	return out, nil
}

// validateTextual validates a textual category (headers or cookies), or
// passes it through unvalidated when no descriptor is declared.
func validateTextual(category string, t schema.Type, raw map[string]string) (map[string]any, error) {
	if t == nil {
		out := make(map[string]any, len(raw))
		for k, v := range raw {
			out[k] = v
		}
		return out, nil
	}
	typed, err := schema.Validate(t, raw)
	if err != nil {
		return nil, prependCategory(category, err)
	}
	if m, ok := typed.(map[string]any); ok {
		return m, nil
	}
	return map[string]any{}, nil
}

// prependCategory pushes the request category onto a validation error's
// field path so failures read as "query.page: invalid number".
func prependCategory(category string, err error) error {
	if ve := schema.AsValidationError(err); ve != nil {
		return &schema.ValidationError{
			Path:    append([]string{category}, ve.Path...),
			Message: ve.Message,
		}
	}
	return err
}
