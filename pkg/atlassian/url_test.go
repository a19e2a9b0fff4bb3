package atlassian_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tidemark-io/atlassian/pkg/atlassian"
)

func TestResourceURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		resource   string
		apiRoot    *string
		apiVersion *string
		expected   string
	}{
		{
			name:       "all segments",
			resource:   "issue",
			apiRoot:    atlassian.String("rest/api"),
			apiVersion: atlassian.String("2"),
			expected:   "rest/api/2/issue",
		},
		{
			name:       "nil version omitted",
			resource:   "issue",
			apiRoot:    atlassian.String("rest/api"),
			apiVersion: nil,
			expected:   "rest/api/issue",
		},
		{
			name:       "nil root omitted",
			resource:   "status",
			apiRoot:    nil,
			apiVersion: atlassian.String("latest"),
			expected:   "latest/status",
		},
		{
			name:       "all optional segments nil",
			resource:   "status",
			apiRoot:    nil,
			apiVersion: nil,
			expected:   "status",
		},
		{
			name:       "surrounding slashes stripped",
			resource:   "/issue/",
			apiRoot:    atlassian.String("/rest/api/"),
			apiVersion: atlassian.String("/latest/"),
			expected:   "rest/api/latest/issue",
		},
		{
			name:       "empty segment kept",
			resource:   "issue",
			apiRoot:    atlassian.String(""),
			apiVersion: nil,
			expected:   "/issue",
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := atlassian.ResourceURL(testCase.resource, testCase.apiRoot, testCase.apiVersion)
			assert.Equal(t, testCase.expected, result)
		})
	}
}

func TestJoinURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     *string
		path     string
		trailing bool
		expected string
	}{
		{
			name:     "base and path",
			base:     atlassian.String("https://jira.example.com"),
			path:     "rest/api/2/issue",
			expected: "https://jira.example.com/rest/api/2/issue",
		},
		{
			name:     "slashes normalized",
			base:     atlassian.String("https://jira.example.com/"),
			path:     "/rest/api/2/issue/",
			expected: "https://jira.example.com/rest/api/2/issue",
		},
		{
			name:     "trailing slash appended",
			base:     atlassian.String("https://jira.example.com"),
			path:     "rest/api/2/issue",
			trailing: true,
			expected: "https://jira.example.com/rest/api/2/issue/",
		},
		{
			name:     "nil base passes path through",
			base:     nil,
			path:     "https://other.example.com/rest/api/2/issue",
			expected: "https://other.example.com/rest/api/2/issue",
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := atlassian.JoinURL(testCase.base, testCase.path, testCase.trailing)
			assert.Equal(t, testCase.expected, result)
		})
	}
}
