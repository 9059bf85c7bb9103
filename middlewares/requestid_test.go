package middlewares_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blurname/farrow/internal"
	"github.com/blurname/farrow/middlewares"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates an id", func(t *testing.T) {
		t.Parallel()
		var inRun string
		r := newTestRouter(middlewares.RequestID(), func(ctx context.Context, _ *internal.ValidatedRequest, _ internal.HandlerNext) (*internal.Response, error) {
			inRun = middlewares.GetRequestID(ctx)
			return internal.Empty(), nil
		})

		resp, err := r.Run(context.Background(), newRequest("GET", "/x"))
		require.NoError(t, err)
		require.NotEmpty(t, inRun)
		require.Equal(t, inRun, resp.Headers["X-Request-ID"])
	})

	t.Run("preserves upstream id", func(t *testing.T) {
		t.Parallel()
		r := newTestRouter(middlewares.RequestID(), okHandler("ok"))

		req := newRequest("GET", "/x")
		req.Headers["x-request-id"] = "upstream-1"
		resp, err := r.Run(context.Background(), req)
		require.NoError(t, err)
		require.Equal(t, "upstream-1", resp.Headers["X-Request-ID"])
	})

	t.Run("custom generator and header", func(t *testing.T) {
		t.Parallel()
		r := newTestRouter(middlewares.RequestID(
			middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
			middlewares.WithRequestIDResponseHeader("X-Trace"),
		), okHandler("ok"))

		resp, err := r.Run(context.Background(), newRequest("GET", "/x"))
		require.NoError(t, err)
		require.Equal(t, "fixed", resp.Headers["X-Trace"])
	})

	t.Run("unique per run", func(t *testing.T) {
		t.Parallel()
		r := newTestRouter(middlewares.RequestID(), okHandler("ok"))

		a, err := r.Run(context.Background(), newRequest("GET", "/x"))
		require.NoError(t, err)
		b, err := r.Run(context.Background(), newRequest("GET", "/x"))
		require.NoError(t, err)
		require.NotEqual(t, a.Headers["X-Request-ID"], b.Headers["X-Request-ID"])
	})
}

func TestGetRequestIDOutsideRun(t *testing.T) {
	t.Parallel()

	require.Empty(t, middlewares.GetRequestID(context.Background()))
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	extract := middlewares.RequestIDExtractor()
	var attrValue string
	r := newTestRouter(middlewares.RequestID(
		middlewares.WithRequestIDGenerator(func() string { return "rid-9" }),
	), func(ctx context.Context, _ *internal.ValidatedRequest, _ internal.HandlerNext) (*internal.Response, error) {
		attr, ok := extract(ctx)
		require.True(t, ok)
		attrValue = attr.Value.String()
		return internal.Empty(), nil
	})

	_, err := r.Run(context.Background(), newRequest("GET", "/x"))
	require.NoError(t, err)
	require.Equal(t, "rid-9", attrValue)

	_, ok := extract(context.Background())
	require.False(t, ok)
}
