package middlewares

import (
	"context"
	"log/slog"
	"strings"

	"github.com/blurname/farrow/internal"
	"github.com/blurname/farrow/pkg/id"
	"github.com/blurname/farrow/pkg/logger"
	"github.com/blurname/farrow/pkg/pipeline"
)

// requestIDCell holds the request ID for the current run.
var requestIDCell = pipeline.NewCell[string]("request_id", "")

// DefaultRequestIDHeaders are the headers checked (in order) for an existing request ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Request-Id", "X-Correlation-ID"}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	Generator      func() string // ID generator function
	ResponseHeader string        // Response header name
	Headers        []string      // Headers to check for existing ID (in order)
}

// RequestIDOption configures RequestIDConfig.
type RequestIDOption func(*RequestIDConfig)

// WithRequestIDHeaders sets the headers to check for existing request IDs.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Headers = headers
	}
}

// WithRequestIDGenerator sets a custom ID generator function.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Generator = gen
	}
}

// WithRequestIDResponseHeader sets the response header name.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestID returns middleware that assigns a unique request ID to each
// run. The ID is taken from request headers when present or generated,
// stored in a run-scoped cell, and echoed on the response header.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := &RequestIDConfig{
		Headers:        DefaultRequestIDHeaders,
		Generator:      id.NewULID,
		ResponseHeader: "X-Request-ID",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(ctx context.Context, req *internal.RequestDescriptor, next internal.Next) (*internal.Response, error) {
		// First match wins to preserve upstream tracing IDs.
		var reqID string
		for _, header := range cfg.Headers {
			if v := req.Headers[strings.ToLower(header)]; v != "" {
				reqID = v
				break
			}
		}

		if reqID == "" {
			reqID = cfg.Generator()
		}

		if err := requestIDCell.Set(ctx, reqID); err != nil {
			return nil, err
		}

		resp, err := next(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp != nil && cfg.ResponseHeader != "" {
			resp = resp.WithHeader(cfg.ResponseHeader, reqID)
		}
		return resp, nil
	}
}

// GetRequestID extracts the request ID of the current run.
// Returns an empty string outside a run or before RequestID ran.
func GetRequestID(ctx context.Context) string {
	v, err := requestIDCell.Get(ctx)
	if err != nil {
		return ""
	}
	return v
}

// RequestIDExtractor returns a ContextExtractor for use with the logger
// factory. Automatically adds "request_id" to all log entries.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v := GetRequestID(ctx); v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
