package atlassian

import (
	"io"
	"net/url"
)

// File is one multipart attachment. When a request carries files the body
// is encoded as multipart/form-data and any form fields are sent alongside
// the attachments.
type File struct {
	// FieldName is the multipart field name, e.g. "file".
	FieldName string

	// FileName is the name reported to the server.
	FileName string

	// Content is read exactly once when the request body is encoded.
	Content io.Reader
}

// Request describes one logical HTTP request. Build it with NewRequest and
// RequestOption values; a Request is consumed by a single Client.Do call.
type Request struct {
	// Method is the HTTP method.
	Method string

	// Path is joined onto the client's base URL, or used verbatim as the
	// full request URL when Absolute is set.
	Path string

	// Params are URL-encoded into the query string. Commas are left
	// unescaped, matching what Atlassian servers expect for multi-value
	// fields.
	Params url.Values

	// Flags are pre-formatted query fragments appended verbatim, joined
	// with "&".
	Flags []string

	// Headers, when non-nil, replace the default header set entirely.
	Headers map[string]string

	// JSON is marshalled as the request body.
	JSON any

	// Form carries form fields. Without files they are sent URL-encoded as
	// the body; with files they become multipart fields.
	Form url.Values

	// Files switches the body to multipart/form-data encoding.
	Files []File

	// Trailing appends a "/" to the built URL.
	Trailing bool

	// Absolute uses Path verbatim as the full request URL.
	Absolute bool

	// Advanced overrides the client's advanced-mode default for this call.
	// Nil means "use the client default"; an explicit value always wins.
	Advanced *bool

	// Binary makes Get return the raw body bytes instead of decoded JSON.
	Binary bool
}

// RequestOption mutates a Request before it is executed.
type RequestOption func(*Request)

// NewRequest builds a Request for method and path with the given options
// applied in order.
func NewRequest(method, path string, opts ...RequestOption) *Request {
	req := &Request{
		Method: method,
		Path:   path,
	}

	for _, opt := range opts {
		opt(req)
	}

	return req
}

// WithParams sets the query parameters.
func WithParams(params url.Values) RequestOption {
	return func(r *Request) {
		r.Params = params
	}
}

// WithParam adds a single query parameter.
func WithParam(key, value string) RequestOption {
	return func(r *Request) {
		if r.Params == nil {
			r.Params = url.Values{}
		}

		r.Params.Add(key, value)
	}
}

// WithFlags appends pre-formatted query fragments.
func WithFlags(flags ...string) RequestOption {
	return func(r *Request) {
		r.Flags = append(r.Flags, flags...)
	}
}

// WithHeaders replaces the default header set for this request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *Request) {
		r.Headers = headers
	}
}

// WithJSON sets the JSON request body.
func WithJSON(body any) RequestOption {
	return func(r *Request) {
		r.JSON = body
	}
}

// WithForm sets form fields for the request body.
func WithForm(form url.Values) RequestOption {
	return func(r *Request) {
		r.Form = form
	}
}

// WithFiles attaches files, switching the body to multipart encoding.
func WithFiles(files ...File) RequestOption {
	return func(r *Request) {
		r.Files = append(r.Files, files...)
	}
}

// WithTrailingSlash appends a "/" to the built URL.
func WithTrailingSlash() RequestOption {
	return func(r *Request) {
		r.Trailing = true
	}
}

// WithAbsoluteURL treats the request path as a complete URL.
func WithAbsoluteURL() RequestOption {
	return func(r *Request) {
		r.Absolute = true
	}
}

// WithAdvancedMode overrides the client's advanced-mode default for this
// call. The per-call value always wins.
func WithAdvancedMode(advanced bool) RequestOption {
	return func(r *Request) {
		r.Advanced = &advanced
	}
}

// WithBinaryResponse makes Get return the raw body bytes.
func WithBinaryResponse() RequestOption {
	return func(r *Request) {
		r.Binary = true
	}
}
