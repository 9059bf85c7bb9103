package internal_test

import (
	"context"
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blurname/farrow/internal"
	"github.com/blurname/farrow/pkg/schema"
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

func echoParams() internal.Handler {
	return func(ctx context.Context, req *internal.ValidatedRequest, _ internal.HandlerNext) (*internal.Response, error) {
		return internal.JSON(req), nil
	}
}

func textHandler(s string) internal.Handler {
	return func(ctx context.Context, _ *internal.ValidatedRequest, _ internal.HandlerNext) (*internal.Response, error) {
		return internal.Text(s), nil
	}
}

func TestRouterTypedCaptures(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	var got *internal.ValidatedRequest
	r.Get("/test0/<name:string>/<age:int>?static=abc&<dynamic:int>").Use(
		func(ctx context.Context, req *internal.ValidatedRequest, _ internal.HandlerNext) (*internal.Response, error) {
			got = req
			return internal.Empty(), nil
		},
	)

	_, err := r.Run(context.Background(), newRequest("GET", "/test0/jim/31?static=abc&dynamic=7"))
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "jim", got.Params["name"])
	require.Equal(t, int64(31), got.Params["age"])
	require.Equal(t, "abc", got.Query["static"])
	require.Equal(t, int64(7), got.Query["dynamic"])
}

func TestRouterRegistrationOrder(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	r.Get("/items/<id:int>").Use(textHandler("first"))
	r.Get("/items/<id:int>").Use(textHandler("second"))

	resp, err := r.Run(context.Background(), newRequest("GET", "/items/1"))
	require.NoError(t, err)
	require.Equal(t, "first", resp.Text)
}

func TestRouterCommitOnMatch(t *testing.T) {
	t.Parallel()

	// The first pattern matches "/users/abc" positionally but fails
	// int validation. That commits: the literal route below never runs.
	r := internal.NewRouter()
	r.Get("/users/<id:int>").Use(textHandler("typed"))
	r.Get("/users/abc").Use(textHandler("literal"))

	_, err := r.Run(context.Background(), newRequest("GET", "/users/abc"))
	require.Error(t, err)
	require.True(t, schema.IsValidationError(err))
}

func TestRouterMethodMismatchFallsThrough(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	r.Post("/things").Use(textHandler("created"))
	r.Get("/things").Use(textHandler("listed"))

	resp, err := r.Run(context.Background(), newRequest("GET", "/things"))
	require.NoError(t, err)
	require.Equal(t, "listed", resp.Text)
}

func TestRouterHandlerFallthrough(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	r.Get("/a/<rest*:string>").Use(
		func(ctx context.Context, req *internal.ValidatedRequest, next internal.HandlerNext) (*internal.Response, error) {
			return next(ctx, req)
		},
	)
	r.Get("/a/b").Use(textHandler("second"))

	resp, err := r.Run(context.Background(), newRequest("GET", "/a/b"))
	require.NoError(t, err)
	require.Equal(t, "second", resp.Text)
}

func TestRouterNoMatch(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	r.Get("/only").Use(textHandler("only"))

	_, err := r.Run(context.Background(), newRequest("GET", "/missing"))
	require.ErrorIs(t, err, internal.ErrNoMatch)
}

func TestRouterNesting(t *testing.T) {
	t.Parallel()

	t.Run("prefix stripped for sub-router", func(t *testing.T) {
		t.Parallel()
		sub := internal.NewRouter()
		var names []string
		sub.Get("/users/<id:int>").Use(
			func(ctx context.Context, req *internal.ValidatedRequest, _ internal.HandlerNext) (*internal.Response, error) {
				var err error
				names, err = internal.Basenames(ctx)
				require.NoError(t, err)
				return internal.JSON(req.Params), nil
			},
		)

		root := internal.NewRouter()
		root.Route("/api", sub)

		resp, err := root.Run(context.Background(), newRequest("GET", "/api/users/42"))
		require.NoError(t, err)
		require.Equal(t, internal.KindJSON, resp.Kind)
		require.Equal(t, []string{"/api"}, names)
	})

	t.Run("unmatched sub-router falls through", func(t *testing.T) {
		t.Parallel()
		sub := internal.NewRouter()
		sub.Get("/users").Use(textHandler("sub"))

		root := internal.NewRouter()
		root.Route("/api", sub)
		root.Get("/api/other").Use(
			func(ctx context.Context, _ *internal.ValidatedRequest, _ internal.HandlerNext) (*internal.Response, error) {
				names, err := internal.Basenames(ctx)
				require.NoError(t, err)
				require.Empty(t, names)
				return internal.Text("root"), nil
			},
		)

		resp, err := root.Run(context.Background(), newRequest("GET", "/api/other"))
		require.NoError(t, err)
		require.Equal(t, "root", resp.Text)
	})

	t.Run("deep nesting accumulates basenames", func(t *testing.T) {
		t.Parallel()
		leaf := internal.NewRouter()
		var prefix string
		leaf.Get("/c").Use(
			func(ctx context.Context, _ *internal.ValidatedRequest, _ internal.HandlerNext) (*internal.Response, error) {
				var err error
				prefix, err = internal.Prefix(ctx)
				require.NoError(t, err)
				return internal.Empty(), nil
			},
		)
		mid := internal.NewRouter()
		mid.Route("/b", leaf)
		root := internal.NewRouter()
		root.Route("/a", mid)

		_, err := root.Run(context.Background(), newRequest("GET", "/a/b/c"))
		require.NoError(t, err)
		require.Equal(t, "/a/b", prefix)
	})
}

func TestRouterCapture(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	r.Get("/text").Use(textHandler("plain"))
	r.Get("/json").Use(echoParams())
	r.Capture(internal.KindText, func(resp *internal.Response) *internal.Response {
		return internal.HTML("<p>" + resp.Text + "</p>")
	})

	resp, err := r.Run(context.Background(), newRequest("GET", "/text"))
	require.NoError(t, err)
	require.Equal(t, internal.KindHTML, resp.Kind)
	require.Equal(t, "<p>plain</p>", resp.Text)

	resp, err = r.Run(context.Background(), newRequest("GET", "/json"))
	require.NoError(t, err)
	require.Equal(t, internal.KindJSON, resp.Kind)
}

func TestRouterMatchSchema(t *testing.T) {
	t.Parallel()

	t.Run("regexp pathname", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()
		r.MatchSchema(&internal.RouteSchema{
			Regexp: regexp.MustCompile(`^/files/.*\.txt$`),
			Method: "GET",
		}).Use(textHandler("file"))

		resp, err := r.Run(context.Background(), newRequest("GET", "/files/notes.txt"))
		require.NoError(t, err)
		require.Equal(t, "file", resp.Text)

		_, err = r.Run(context.Background(), newRequest("GET", "/files/notes.png"))
		require.ErrorIs(t, err, internal.ErrNoMatch)
	})

	t.Run("header descriptor", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()
		r.MatchSchema(&internal.RouteSchema{
			Pathname: "/secure",
			Method:   "GET",
			Headers:  schema.Struct(schema.Field{Name: "authorization", Type: schema.String}),
		}).Use(echoParams())

		req := newRequest("GET", "/secure")
		req.Headers["authorization"] = "Bearer tok"
		resp, err := r.Run(context.Background(), req)
		require.NoError(t, err)
		require.Equal(t, internal.KindJSON, resp.Kind)

		_, err = r.Run(context.Background(), newRequest("GET", "/secure"))
		require.Error(t, err)
		require.True(t, schema.IsValidationError(err))
	})
}

func TestRouterMatchExtraSchema(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	var got *internal.ValidatedRequest
	r.Post("/orders/<id:id>", &internal.RouteSchema{
		Body: schema.Struct(
			schema.Field{Name: "qty", Type: schema.Int},
		),
	}).Use(
		func(ctx context.Context, req *internal.ValidatedRequest, _ internal.HandlerNext) (*internal.Response, error) {
			got = req
			return internal.Empty(), nil
		},
	)

	req := newRequest("POST", "/orders/ord_1")
	req.Body = map[string]any{"qty": float64(3)}
	_, err := r.Run(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "ord_1", got.Params["id"])
	body, ok := got.Body.(map[string]any)
	require.True(t, ok)
	require.Equal(t, int64(3), body["qty"])
}

func TestRouterUseMiddleware(t *testing.T) {
	t.Parallel()

	var order []string
	r := internal.NewRouter()
	r.Use(func(ctx context.Context, req *internal.RequestDescriptor, next internal.Next) (*internal.Response, error) {
		order = append(order, "mw-in")
		resp, err := next(ctx, req)
		order = append(order, "mw-out")
		return resp, err
	})
	r.Get("/x").Use(func(ctx context.Context, _ *internal.ValidatedRequest, _ internal.HandlerNext) (*internal.Response, error) {
		order = append(order, "handler")
		return internal.Empty(), nil
	})

	_, err := r.Run(context.Background(), newRequest("GET", "/x"))
	require.NoError(t, err)
	require.Equal(t, []string{"mw-in", "handler", "mw-out"}, order)
}

func TestRouterMatchPanicsOnBadTemplate(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	require.Panics(t, func() {
		r.Match("/bad/<x:unknown>")
	})
}
