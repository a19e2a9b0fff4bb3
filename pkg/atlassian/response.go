package atlassian

import (
	"encoding/json"
	"net/http"
)

// Response is the normalized envelope returned by Client.Do. Body holds the
// raw payload bytes; Text interprets them as UTF-8 regardless of the
// charset the server declared.
type Response struct {
	// StatusCode is the HTTP status code of the final attempt.
	StatusCode int

	// Status is the full status line, e.g. "200 OK".
	Status string

	// Headers are the response headers of the final attempt.
	Headers http.Header

	// Body is the raw response payload.
	Body []byte

	// Method and URL echo the request that produced this response.
	Method string
	URL    string
}

// Text returns the body decoded as UTF-8 text.
func (r *Response) Text() string {
	return string(r.Body)
}

// JSON decodes the body into the dynamic shapes produced by encoding/json:
// map[string]any, []any, string, float64, bool or nil.
func (r *Response) JSON() (any, error) {
	var v any

	err := json.Unmarshal(r.Body, &v)
	if err != nil {
		return nil, err
	}

	return v, nil
}
