package internal_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blurname/farrow/internal"
)

func TestFromHTTPRequest(t *testing.T) {
	t.Parallel()

	t.Run("basic fields", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "http://api.example.com/users/1?page=2", nil)
		req.Header.Set("X-Request-ID", "abc")
		req.AddCookie(&http.Cookie{Name: "SID", Value: "s1"})

		desc, err := internal.FromHTTPRequest(req)
		require.NoError(t, err)
		require.Equal(t, "/users/1", desc.Pathname)
		require.Equal(t, "GET", desc.Method)
		require.Equal(t, "api.example.com", desc.Host)
		require.Equal(t, "2", desc.Query.Get("page"))
		require.Equal(t, "abc", desc.Headers["x-request-id"])
		require.Equal(t, "s1", desc.Cookies["sid"])
		require.Nil(t, desc.Body)
	})

	t.Run("json body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"qty": 3, "tags": ["a"]}`))
		req.Header.Set("Content-Type", "application/json")

		desc, err := internal.FromHTTPRequest(req)
		require.NoError(t, err)
		body, ok := desc.Body.(map[string]any)
		require.True(t, ok)
		require.Equal(t, float64(3), body["qty"])
		require.Equal(t, []any{"a"}, body["tags"])
	})

	t.Run("malformed json body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")

		_, err := internal.FromHTTPRequest(req)
		require.Error(t, err)
		httpErr := internal.AsHTTPError(err)
		require.NotNil(t, httpErr)
		require.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("empty json body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(""))
		req.Header.Set("Content-Type", "application/json")

		desc, err := internal.FromHTTPRequest(req)
		require.NoError(t, err)
		require.Nil(t, desc.Body)
	})
}

func TestWriteResponse(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		resp := internal.JSON(map[string]string{"ok": "yes"}).WithHeader("X-A", "1")

		require.NoError(t, internal.WriteResponse(w, r, resp))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		require.Equal(t, "1", w.Header().Get("X-A"))
		require.JSONEq(t, `{"ok":"yes"}`, w.Body.String())
	})

	t.Run("text with status", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		require.NoError(t, internal.WriteResponse(w, r, internal.Text("made").WithStatus(http.StatusCreated)))
		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, "made", w.Body.String())
	})

	t.Run("empty defaults to 204", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		require.NoError(t, internal.WriteResponse(w, r, internal.Empty()))
		require.Equal(t, http.StatusNoContent, w.Code)
		require.Empty(t, w.Body.String())
	})

	t.Run("nil response writes 204", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		require.NoError(t, internal.WriteResponse(w, r, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
		require.Empty(t, w.Body.String())
	})

	t.Run("redirect", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		require.NoError(t, internal.WriteResponse(w, r, internal.Redirect("/login")))
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("stream", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		require.NoError(t, internal.WriteResponse(w, r, internal.Stream(strings.NewReader("chunked"))))
		require.Equal(t, "chunked", w.Body.String())
	})

	t.Run("custom", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		resp := internal.Custom(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})

		require.NoError(t, internal.WriteResponse(w, r, resp))
		require.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("cookies and vary", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		resp := internal.Text("x").
			WithCookie(&http.Cookie{Name: "sid", Value: "v"}).
			WithVary("Accept")

		require.NoError(t, internal.WriteResponse(w, r, resp))
		require.Contains(t, w.Header().Get("Set-Cookie"), "sid=v")
		require.Equal(t, "Accept", w.Header().Get("Vary"))
	})
}

func TestNewHTTPHandler(t *testing.T) {
	t.Parallel()

	router := internal.NewRouter()
	router.Get("/greet/<name:string>").Use(
		func(ctx context.Context, req *internal.ValidatedRequest, _ internal.HandlerNext) (*internal.Response, error) {
			return internal.Text("hello " + req.Params["name"].(string)), nil
		},
	)
	router.Get("/fail/<n:int>").Use(
		func(ctx context.Context, _ *internal.ValidatedRequest, _ internal.HandlerNext) (*internal.Response, error) {
			return nil, internal.ErrForbidden("nope")
		},
	)
	handler := internal.NewHTTPHandler(router, nil)

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/greet/ann", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "hello ann", w.Body.String())
	})

	t.Run("validation failure is 400", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail/abc", nil))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("http error keeps status", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail/3", nil))
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("no match is 404", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
