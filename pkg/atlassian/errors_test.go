package atlassian_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidemark-io/atlassian/pkg/atlassian"
)

func newResponse(status int, contentType, body string) *atlassian.Response {
	headers := http.Header{}
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}

	return &atlassian.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Headers:    headers,
		Body:       []byte(body),
		Method:     http.MethodGet,
		URL:        "https://jira.example.com/rest/api/2/issue/TEST-1",
	}
}

func TestCheckResponse(t *testing.T) {
	t.Parallel()

	checker := atlassian.NewResponseChecker("https://jira.example.com")

	t.Run("success returns nil", func(t *testing.T) {
		t.Parallel()

		err := checker.CheckResponse(newResponse(http.StatusOK, "application/json", `{"ok":true}`))
		assert.NoError(t, err)
	})

	t.Run("redirect returns nil", func(t *testing.T) {
		t.Parallel()

		err := checker.CheckResponse(newResponse(http.StatusFound, "text/html", ""))
		assert.NoError(t, err)
	})

	t.Run("401 without JSON content type raises immediately", func(t *testing.T) {
		t.Parallel()

		resp := newResponse(http.StatusUnauthorized, "text/html", "<html>login</html>")

		err := checker.CheckResponse(resp)
		require.Error(t, err)
		assert.EqualError(t, err, "Unauthorized (401)")
		assert.True(t, atlassian.IsUnauthorized(err))
	})

	t.Run("401 with JSON content type takes the generic path", func(t *testing.T) {
		t.Parallel()

		resp := newResponse(http.StatusUnauthorized, "application/json;charset=UTF-8",
			`{"errorMessages":["Session expired"]}`)

		err := checker.CheckResponse(resp)
		require.Error(t, err)
		assert.EqualError(t, err, "Session expired")
	})

	t.Run("errorMessages and errors map are joined", func(t *testing.T) {
		t.Parallel()

		resp := newResponse(http.StatusBadRequest, "application/json",
			`{"errorMessages":["bad input"],"errors":{"field":"required"}}`)

		err := checker.CheckResponse(resp)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad input")
		assert.Contains(t, err.Error(), "required")
	})

	t.Run("errors map with message key wins over field entries", func(t *testing.T) {
		t.Parallel()

		resp := newResponse(http.StatusBadRequest, "application/json",
			`{"errors":{"message":"permission denied","field":"ignored"}}`)

		err := checker.CheckResponse(resp)
		require.Error(t, err)
		assert.EqualError(t, err, "permission denied")
	})

	t.Run("errors list of objects uses each message", func(t *testing.T) {
		t.Parallel()

		resp := newResponse(http.StatusBadRequest, "application/json",
			`{"errors":[{"message":"first"},{"message":"second"}]}`)

		err := checker.CheckResponse(resp)
		require.Error(t, err)
		assert.EqualError(t, err, "first\nsecond")
	})

	t.Run("malformed payload degrades to generic status error", func(t *testing.T) {
		t.Parallel()

		resp := newResponse(http.StatusNotFound, "text/html", "<html>not json</html>")

		err := checker.CheckResponse(resp)
		require.Error(t, err)
		assert.EqualError(t, err, "404 Not Found")
		assert.True(t, atlassian.IsNotFound(err))
	})

	t.Run("error carries the response", func(t *testing.T) {
		t.Parallel()

		resp := newResponse(http.StatusConflict, "application/json", `{"errorMessages":["duplicate"]}`)

		err := checker.CheckResponse(resp)
		require.Error(t, err)

		httpErr := &atlassian.HTTPError{}
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.StatusCode)
		assert.Same(t, resp, httpErr.Response)
	})
}

func TestCheckResponseCloudIdentity(t *testing.T) {
	t.Parallel()

	checker := atlassian.NewResponseChecker("https://api.atlassian.com")

	resp := newResponse(http.StatusForbidden, "application/json",
		`{"error":"forbidden","error_description":"scope missing"}`)

	err := checker.CheckResponse(resp)
	require.Error(t, err)
	assert.EqualError(t, err, "error: forbidden\nerror_description: scope missing")
}
