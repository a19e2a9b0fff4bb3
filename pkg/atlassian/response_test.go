package atlassian_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidemark-io/atlassian/pkg/atlassian"
)

func TestResponseJSON(t *testing.T) {
	t.Parallel()

	t.Run("object", func(t *testing.T) {
		t.Parallel()

		resp := &atlassian.Response{Body: []byte(`{"total":2,"issues":[]}`)}

		value, err := resp.JSON()
		require.NoError(t, err)

		object, ok := value.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(2), object["total"])
	})

	t.Run("array", func(t *testing.T) {
		t.Parallel()

		resp := &atlassian.Response{Body: []byte(`["a","b"]`)}

		value, err := resp.JSON()
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b"}, value)
	})

	t.Run("invalid body", func(t *testing.T) {
		t.Parallel()

		resp := &atlassian.Response{Body: []byte("<html></html>")}

		_, err := resp.JSON()
		require.Error(t, err)
	})
}

func TestResponseText(t *testing.T) {
	t.Parallel()

	resp := &atlassian.Response{Body: []byte("héllo")}
	assert.Equal(t, "héllo", resp.Text())
}
