package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/blurname/farrow/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// timeoutResult carries one handler outcome across the select.
type timeoutResult struct {
	resp *internal.Response
	err  error
}

// Timeout returns middleware that enforces a per-run deadline. The rest
// of the pipeline runs under a derived context; if it does not finish in
// time, a *TimeoutError is returned for the adapter to render as 504.
//
// Note: the handler goroutine keeps running after the deadline. Use
// ctx.Done() in long-running operations to terminate early.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(ctx context.Context, req *internal.RequestDescriptor, next internal.Next) (*internal.Response, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		done := make(chan timeoutResult, 1)
		go func() {
			resp, err := next(ctx, req)
			done <- timeoutResult{resp: resp, err: err}
		}()

		select {
		case res := <-done:
			return res.resp, res.err
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, &TimeoutError{Duration: timeout}
			}
			return nil, ctx.Err()
		}
	}
}
