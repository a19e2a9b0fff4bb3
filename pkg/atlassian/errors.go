package atlassian

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Static errors for construction-time failures.
var (
	ErrConfigRequired  = errors.New("config is required")
	ErrBaseURLRequired = errors.New("base URL is required")

	// ErrKerberosUnavailable is wrapped by construction errors when the
	// Kerberos environment (krb5 config or credential cache) cannot be
	// loaded. It is raised at construction, never deferred to the first
	// request.
	ErrKerberosUnavailable = errors.New("kerberos support unavailable")

	ErrUnknownSignatureMethod = errors.New("unknown OAuth1 signature method")
	ErrInvalidPrivateKey      = errors.New("invalid OAuth1 RSA private key")
	ErrConsumerKeyRequired    = errors.New("OAuth1 consumer key is required")
	ErrOAuth2TokenRequired    = errors.New("OAuth2 token with access token and token type is required")
	ErrOAuth2ClientIDRequired = errors.New("OAuth2 client ID is required")
)

// HTTPError is the uniform error raised for HTTP failure statuses. It
// carries the message composed from the server's error payload and the
// original response for programmatic inspection.
type HTTPError struct {
	Message    string
	StatusCode int
	Response   *Response
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsUnauthorized reports whether err is an HTTPError with status 401.
func IsUnauthorized(err error) bool {
	httpErr := &HTTPError{}

	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is an HTTPError with status 404.
func IsNotFound(err error) bool {
	httpErr := &HTTPError{}

	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}

// ResponseChecker normalizes HTTP failure responses into errors. The
// default implementation understands the error payload shapes the
// Atlassian products return; product wrappers with bespoke shapes replace
// it via Config.ResponseChecker while reusing the rest of the pipeline.
type ResponseChecker interface {
	// CheckResponse returns nil for non-error responses and a *HTTPError
	// for statuses in [400, 600).
	CheckResponse(resp *Response) error
}

// cloudIdentityURL is the generic cloud identity endpoint, whose error
// payloads are flat JSON objects rather than errorMessages/errors shapes.
const cloudIdentityURL = "https://api.atlassian.com"

// jsonUTF8ContentType marks the softer, possibly session-expiry 401
// responses that are left to the generic error path.
const jsonUTF8ContentType = "application/json;charset=UTF-8"

type atlassianChecker struct {
	baseURL string
}

// NewResponseChecker returns the default checker for a client addressing
// baseURL.
func NewResponseChecker(baseURL string) ResponseChecker {
	return &atlassianChecker{baseURL: baseURL}
}

// CheckResponse implements ResponseChecker.
func (c *atlassianChecker) CheckResponse(resp *Response) error {
	if resp.StatusCode == http.StatusUnauthorized && resp.Headers.Get("Content-Type") != jsonUTF8ContentType {
		return &HTTPError{
			Message:    "Unauthorized (401)",
			StatusCode: resp.StatusCode,
			Response:   resp,
		}
	}

	if resp.StatusCode < 400 || resp.StatusCode >= 600 {
		return nil
	}

	message, err := c.composeMessage(resp)
	if err != nil {
		// Malformed error payloads fall back to a generic status error
		// rather than masking the failure with a decode error.
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Response:   resp,
		}
	}

	return &HTTPError{
		Message:    message,
		StatusCode: resp.StatusCode,
		Response:   resp,
	}
}

// composeMessage extracts a human-readable message from the closed set of
// error payload shapes Atlassian servers produce.
func (c *atlassianChecker) composeMessage(resp *Response) (string, error) {
	payload, err := resp.JSON()
	if err != nil {
		return "", err
	}

	object, ok := payload.(map[string]any)
	if !ok {
		return "", fmt.Errorf("unexpected error payload shape %T", payload)
	}

	if c.baseURL == cloudIdentityURL {
		return flattenObject(object), nil
	}

	var fragments []string

	if errorMessages, ok := object["errorMessages"].([]any); ok {
		for _, m := range errorMessages {
			fragments = append(fragments, fmt.Sprint(m))
		}
	}

	switch errs := object["errors"].(type) {
	case map[string]any:
		if message, ok := errs["message"]; ok {
			fragments = append(fragments, fmt.Sprint(message))
		} else {
			for _, key := range sortedKeys(errs) {
				fragments = append(fragments, fmt.Sprint(errs[key]))
			}
		}
	case []any:
		for _, entry := range errs {
			if m, ok := entry.(map[string]any); ok {
				message := ""
				if v, ok := m["message"]; ok {
					message = fmt.Sprint(v)
				}

				fragments = append(fragments, message)
			} else {
				fragments = append(fragments, fmt.Sprint(entry))
			}
		}
	}

	return strings.Join(fragments, "\n"), nil
}

func flattenObject(object map[string]any) string {
	lines := make([]string, 0, len(object))
	for _, key := range sortedKeys(object) {
		lines = append(lines, fmt.Sprintf("%s: %v", key, object[key]))
	}

	return strings.Join(lines, "\n")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
