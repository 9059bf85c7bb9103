package health_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/blurname/farrow/pkg/health"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("empty checks report healthy", func(t *testing.T) {
		t.Parallel()

		report := health.Run(context.Background(), nil)
		require.Equal(t, health.StatusHealthy, report.Status)
		require.Empty(t, report.Checks)
	})

	t.Run("all passing", func(t *testing.T) {
		t.Parallel()

		report := health.Run(context.Background(), health.Checks{
			"db":    func(ctx context.Context) error { return nil },
			"cache": func(ctx context.Context) error { return nil },
		})

		require.Equal(t, health.StatusHealthy, report.Status)
		require.Len(t, report.Checks, 2)
		require.Equal(t, health.StatusHealthy, report.Checks["db"].Status)
		require.Empty(t, report.Checks["db"].Error)
	})

	t.Run("one failing marks report unhealthy", func(t *testing.T) {
		t.Parallel()

		report := health.Run(context.Background(), health.Checks{
			"db":    func(ctx context.Context) error { return nil },
			"cache": func(ctx context.Context) error { return errors.New("connection refused") },
		})

		require.Equal(t, health.StatusUnhealthy, report.Status)
		require.Equal(t, health.StatusHealthy, report.Checks["db"].Status)
		require.Equal(t, health.StatusUnhealthy, report.Checks["cache"].Status)
		require.Equal(t, "connection refused", report.Checks["cache"].Error)
	})

	t.Run("timeout cancels slow checks", func(t *testing.T) {
		t.Parallel()

		report := health.Run(context.Background(), health.Checks{
			"slow": func(ctx context.Context) error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Second):
					return nil
				}
			},
		}, health.WithTimeout(20*time.Millisecond))

		require.Equal(t, health.StatusUnhealthy, report.Status)
		require.Contains(t, report.Checks["slow"].Error, "context deadline exceeded")
	})
}
