package internal

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/blurname/farrow/pkg/schema"
)

// FromHTTPRequest lowers an incoming request to the transport-neutral
// descriptor the router consumes. Header and cookie names are lowered
// to lowercase; a JSON body is decoded into loose values.
func FromHTTPRequest(r *http.Request) (*RequestDescriptor, error) {
	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		if len(values) > 0 {
			headers[strings.ToLower(name)] = values[0]
		}
	}

	cookies := make(map[string]string)
	for _, c := range r.Cookies() {
		cookies[strings.ToLower(c.Name)] = c.Value
	}

	desc := &RequestDescriptor{
		Pathname: r.URL.Path,
		Method:   r.Method,
		Host:     r.Host,
		Query:    r.URL.Query(),
		Headers:  headers,
		Cookies:  cookies,
	}

	if r.Body != nil && strings.Contains(headers["content-type"], "application/json") {
		var body any
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, ErrBadRequest("malformed json body", WithError(err))
			}
		} else {
			desc.Body = normalizeJSON(body)
		}
	}

	return desc, nil
}

// normalizeJSON converts json.Number leaves to float64 so the schema
// engine sees plain numeric values.
func normalizeJSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeJSON(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeJSON(e)
		}
		return t
	default:
		return v
	}
}

// WriteResponse serializes a response variant onto the wire. The kind
// picks the serializer; shared metadata (status, headers, cookies,
// vary) is applied first. A nil response writes an empty 204.
func WriteResponse(w http.ResponseWriter, r *http.Request, resp *Response) error {
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	for _, v := range resp.Vary {
		w.Header().Add("Vary", v)
	}
	for _, c := range resp.Cookies {
		http.SetCookie(w, c)
	}

	status := resp.Status

	switch resp.Kind {
	case KindJSON:
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(defaultStatus(status, http.StatusOK))
		return json.NewEncoder(w).Encode(resp.Value)

	case KindText, KindString:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(defaultStatus(status, http.StatusOK))
		_, err := io.WriteString(w, resp.Text)
		return err

	case KindHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(defaultStatus(status, http.StatusOK))
		_, err := io.WriteString(w, resp.Text)
		return err

	case KindRaw:
		w.WriteHeader(defaultStatus(status, http.StatusOK))
		_, err := io.WriteString(w, resp.Text)
		return err

	case KindBuffer:
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/octet-stream")
		}
		w.WriteHeader(defaultStatus(status, http.StatusOK))
		_, err := w.Write(resp.Buffer)
		return err

	case KindStream:
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/octet-stream")
		}
		w.WriteHeader(defaultStatus(status, http.StatusOK))
		_, err := io.Copy(w, resp.Stream)
		return err

	case KindFile:
		http.ServeFile(w, r, resp.Path)
		return nil

	case KindRedirect:
		http.Redirect(w, r, resp.URL, defaultStatus(status, http.StatusFound))
		return nil

	case KindCustom:
		resp.Serve(w, r)
		return nil

	default: // KindEmpty
		w.WriteHeader(defaultStatus(status, http.StatusNoContent))
		return nil
	}
}

func defaultStatus(status, fallback int) int {
	if status != 0 {
		return status
	}
	return fallback
}

// errorBody is the JSON shape of adapter-rendered errors.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteError maps the error taxonomy onto HTTP statuses: validation
// failures become 400, an unmatched request 404, an HTTPError keeps its
// own status, and anything else is a 500 with the detail withheld.
func WriteError(w http.ResponseWriter, err error, log *slog.Logger) {
	status := http.StatusInternalServerError
	body := errorBody{Error: "internal server error"}

	switch {
	case schema.IsValidationError(err):
		status = http.StatusBadRequest
		body.Error = err.Error()
	case errors.Is(err, ErrNoMatch):
		status = http.StatusNotFound
		body.Error = "not found"
	default:
		if httpErr := AsHTTPError(err); httpErr != nil {
			status = httpErr.Code
			body.Error = httpErr.Message
			body.Code = httpErr.ErrorCode
			if httpErr.Err != nil && log != nil {
				log.Error("request failed", "status", status, "error", httpErr.Err)
			}
			break
		}
		var coded interface{ StatusCode() int }
		if errors.As(err, &coded) {
			status = coded.StatusCode()
			body.Error = http.StatusText(status)
		}
		if log != nil {
			log.Error("request failed", "status", status, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// NewHTTPHandler adapts a router to net/http. Each request becomes one
// pipeline run on the request's context.
func NewHTTPHandler(router *Router, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		desc, err := FromHTTPRequest(r)
		if err != nil {
			WriteError(w, err, log)
			return
		}
		resp, err := router.Run(r.Context(), desc)
		if err != nil {
			WriteError(w, err, log)
			return
		}
		if err := WriteResponse(w, r, resp); err != nil && log != nil {
			log.Error("write response", "error", err)
		}
	})
}
