package atlassian

import (
	"context"
	"net/http"
)

// Client is the generic REST core shared by product-specific wrappers
// (Jira, Confluence, Bitbucket, ...). Wrappers hold a Client, build
// resource paths with ResourceURL, and call the verb methods.
//
// Verb methods return the decoded body: map[string]any, []any, string,
// float64, bool or nil, following encoding/json's dynamic mapping. In
// advanced mode (instance default or per-call WithAdvancedMode) they return
// the raw *Response instead and never raise on HTTP error statuses.
type Client interface {
	// Get performs a GET. An empty body yields nil; with
	// WithBinaryResponse the raw body bytes are returned; a body that
	// fails to decode as JSON is returned as its UTF-8 text.
	Get(ctx context.Context, path string, opts ...RequestOption) (any, error)

	// Post performs a POST. Decoding is defensive: a body that fails to
	// decode on an otherwise successful response yields nil, not an error.
	Post(ctx context.Context, path string, opts ...RequestOption) (any, error)

	// Put performs a PUT with the same decoding contract as Post.
	Put(ctx context.Context, path string, opts ...RequestOption) (any, error)

	// Patch performs a PATCH with the same decoding contract as Post.
	Patch(ctx context.Context, path string, opts ...RequestOption) (any, error)

	// Delete performs a DELETE. Servers frequently answer with no body; in
	// that case an empty map is returned so the result is always a
	// structured value.
	Delete(ctx context.Context, path string, opts ...RequestOption) (any, error)

	// Do executes a fully described request and returns the raw response
	// envelope. Unless advanced mode applies, a *HTTPError is returned
	// alongside the envelope for HTTP failure statuses.
	Do(ctx context.Context, req *Request) (*Response, error)

	// ResourceURL joins the configured API root and version with resource.
	ResourceURL(resource string) string

	// BaseURL returns the configured base URL after normalization.
	BaseURL() string

	// Cloud reports whether the client targets an Atlassian Cloud instance.
	Cloud() bool

	// HTTPClient exposes the underlying session for advanced callers. The
	// returned client must not be reconfigured.
	HTTPClient() *http.Client

	// Close releases the session's idle connections. Outstanding requests
	// complete or fail before their resources are released.
	Close() error
}
