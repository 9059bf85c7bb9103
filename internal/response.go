package internal

import (
	"io"
	"maps"
	"net/http"
	"slices"
)

// ResponseKind discriminates the response body variants.
type ResponseKind int

const (
	KindEmpty ResponseKind = iota
	KindJSON
	KindText
	KindHTML
	KindString
	KindBuffer
	KindStream
	KindFile
	KindRedirect
	KindRaw
	KindCustom
)

// String returns the kind's wire-level name.
func (k ResponseKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindJSON:
		return "json"
	case KindText:
		return "text"
	case KindHTML:
		return "html"
	case KindString:
		return "string"
	case KindBuffer:
		return "buffer"
	case KindStream:
		return "stream"
	case KindFile:
		return "file"
	case KindRedirect:
		return "redirect"
	case KindRaw:
		return "raw"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Response is a tagged response value: one body variant plus shared
// metadata. Handlers build responses with the constructors below and the
// chainable With* methods; the HTTP adapter owns serialization.
type Response struct {
	Kind ResponseKind

	// Value is the payload for json responses.
	Value any
	// Text is the payload for text, html, string and raw responses.
	Text string
	// Buffer is the payload for buffer responses.
	Buffer []byte
	// Stream is the payload for stream responses.
	Stream io.Reader
	// Path is the filesystem path for file responses.
	Path string
	// URL is the target for redirect responses.
	URL string
	// Serve is the serializer for custom responses.
	Serve func(w http.ResponseWriter, r *http.Request)

	// Shared metadata.
	Status     int
	StatusText string
	Headers    map[string]string
	Cookies    []*http.Cookie
	Vary       []string

	// bodySet records whether this response carries a body variant;
	// Merge uses it to decide whose body wins.
	bodySet bool
}

func newResponse(kind ResponseKind) *Response {
	return &Response{Kind: kind, bodySet: true}
}

// JSON builds a json response around v.
func JSON(v any) *Response {
	resp := newResponse(KindJSON)
	resp.Value = v
	return resp
}

// Text builds a plain-text response.
func Text(s string) *Response {
	resp := newResponse(KindText)
	resp.Text = s
	return resp
}

// HTML builds an html response from pre-rendered markup.
func HTML(s string) *Response {
	resp := newResponse(KindHTML)
	resp.Text = s
	return resp
}

// String builds a bare string response.
func String(s string) *Response {
	resp := newResponse(KindString)
	resp.Text = s
	return resp
}

// Buffer builds a binary response.
func Buffer(b []byte) *Response {
	resp := newResponse(KindBuffer)
	resp.Buffer = b
	return resp
}

// Stream builds a streaming response copied from r.
func Stream(r io.Reader) *Response {
	resp := newResponse(KindStream)
	resp.Stream = r
	return resp
}

// File builds a response serving the file at path.
func File(path string) *Response {
	resp := newResponse(KindFile)
	resp.Path = path
	return resp
}

// Empty builds a body-less response.
func Empty() *Response {
	return newResponse(KindEmpty)
}

// Redirect builds a redirect to url.
func Redirect(url string) *Response {
	resp := newResponse(KindRedirect)
	resp.URL = url
	return resp
}

// Raw builds a response written without a content type.
func Raw(s string) *Response {
	resp := newResponse(KindRaw)
	resp.Text = s
	return resp
}

// Custom builds a response serialized by fn directly.
func Custom(fn func(w http.ResponseWriter, r *http.Request)) *Response {
	resp := newResponse(KindCustom)
	resp.Serve = fn
	return resp
}

// WithStatus sets the status code and optional custom status text.
func (resp *Response) WithStatus(code int, text ...string) *Response {
	resp.Status = code
	if len(text) > 0 {
		resp.StatusText = text[0]
	}
	return resp
}

// WithHeader sets a response header.
func (resp *Response) WithHeader(name, value string) *Response {
	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	resp.Headers[name] = value
	return resp
}

// WithCookie appends a response cookie.
func (resp *Response) WithCookie(c *http.Cookie) *Response {
	resp.Cookies = append(resp.Cookies, c)
	return resp
}

// WithVary appends Vary header fields.
func (resp *Response) WithVary(fields ...string) *Response {
	resp.Vary = append(resp.Vary, fields...)
	return resp
}

// Merge combines resp with other into a new response: metadata entries
// are unioned with other winning on key conflicts, and the body is
// other's if other set one, else resp's. Neither input is mutated.
func (resp *Response) Merge(other *Response) *Response {
	out := &Response{}

	if other.bodySet {
		out.copyBody(other)
	} else {
		out.copyBody(resp)
	}

	if other.Status != 0 {
		out.Status = other.Status
		out.StatusText = other.StatusText
	} else {
		out.Status = resp.Status
		out.StatusText = resp.StatusText
	}

	if len(resp.Headers)+len(other.Headers) > 0 {
		out.Headers = make(map[string]string, len(resp.Headers)+len(other.Headers))
		maps.Copy(out.Headers, resp.Headers)
		maps.Copy(out.Headers, other.Headers)
	}
	out.Cookies = append(slices.Clone(resp.Cookies), other.Cookies...)
	out.Vary = append(slices.Clone(resp.Vary), other.Vary...)

	return out
}

func (resp *Response) copyBody(from *Response) {
	resp.Kind = from.Kind
	resp.Value = from.Value
	resp.Text = from.Text
	resp.Buffer = from.Buffer
	resp.Stream = from.Stream
	resp.Path = from.Path
	resp.URL = from.URL
	resp.Serve = from.Serve
	resp.bodySet = from.bodySet
}
