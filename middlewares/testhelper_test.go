package middlewares_test

import (
	"context"
	"net/url"

	"github.com/blurname/farrow/internal"
)

func newRequest(method, target string) *internal.RequestDescriptor {
	u, err := url.Parse(target)
	if err != nil {
		panic(err)
	}
	return &internal.RequestDescriptor{
		Pathname: u.Path,
		Method:   method,
		Query:    u.Query(),
		Headers:  map[string]string{},
		Cookies:  map[string]string{},
	}
}

// newTestRouter builds a router running mw in front of a fixed handler.
func newTestRouter(mw internal.Middleware, h internal.Handler) *internal.Router {
	r := internal.NewRouter()
	r.Use(mw)
	r.Match("/<rest*:string>").Use(h)
	return r
}

func okHandler(body string) internal.Handler {
	return func(ctx context.Context, _ *internal.ValidatedRequest, _ internal.HandlerNext) (*internal.Response, error) {
		return internal.Text(body), nil
	}
}
