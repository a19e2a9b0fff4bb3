// Package atlclient provides the entry point for creating Atlassian REST
// core clients.
package atlclient

import (
	"fmt"
	"strings"

	"github.com/tidemark-io/atlassian/internal/rest"
	"github.com/tidemark-io/atlassian/pkg/atlassian"
)

// New creates a client for cfg.BaseURL. The base URL is normalized (a
// trailing slash is trimmed and "https://" is assumed when no scheme is
// present), exactly one authentication strategy is selected and applied to
// the session, and all retry and normalization settings are frozen.
func New(cfg *atlassian.Config) (atlassian.Client, error) {
	if cfg == nil {
		return nil, atlassian.ErrConfigRequired
	}

	if cfg.BaseURL == "" {
		return nil, atlassian.ErrBaseURLRequired
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	normalized := *cfg
	normalized.BaseURL = baseURL

	client, err := rest.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return client, nil
}

// NewWithBasicAuth creates a client using HTTP basic authentication.
func NewWithBasicAuth(baseURL, username, password string) (atlassian.Client, error) {
	return New(&atlassian.Config{
		BaseURL:  baseURL,
		Username: username,
		Password: password,
	})
}

// NewWithToken creates a client using a bearer token (e.g. a personal
// access token).
func NewWithToken(baseURL, token string) (atlassian.Client, error) {
	return New(&atlassian.Config{
		BaseURL: baseURL,
		Token:   token,
	})
}
