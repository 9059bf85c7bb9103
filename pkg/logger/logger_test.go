package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blurname/farrow/pkg/logger"
)

type ctxKey struct{}

func TestWrapHandler(t *testing.T) {
	t.Parallel()

	extractor := func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(ctxKey{}).(string); ok {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}

	t.Run("injects context attribute", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(logger.WrapHandler(slog.NewTextHandler(&buf, nil), extractor))

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-123")
		log.InfoContext(ctx, "hello")

		require.Contains(t, buf.String(), "request_id=req-123")
	})

	t.Run("skips when extractor declines", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(logger.WrapHandler(slog.NewTextHandler(&buf, nil), extractor))

		log.Info("hello")

		require.NotContains(t, buf.String(), "request_id")
	})

	t.Run("drops nil extractors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(logger.WrapHandler(slog.NewTextHandler(&buf, nil), nil))

		log.Info("hello")

		require.Contains(t, buf.String(), "msg=hello")
	})
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	require.NotNil(t, log)
	log.Info("discarded")
}
