package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRevisions(t *testing.T) {
	t.Run("defaults to HEAD", func(t *testing.T) {
		head, limits, err := parseRevisions(nil)
		require.NoError(t, err)
		require.Equal(t, "HEAD", head)
		require.Empty(t, limits)
	})

	t.Run("splits head and limits", func(t *testing.T) {
		head, limits, err := parseRevisions([]string{"feature", "^main", "^v1.0"})
		require.NoError(t, err)
		require.Equal(t, "feature", head)
		require.Equal(t, []string{"main", "v1.0"}, limits)
	})

	t.Run("limits only", func(t *testing.T) {
		head, limits, err := parseRevisions([]string{"^main"})
		require.NoError(t, err)
		require.Equal(t, "HEAD", head)
		require.Equal(t, []string{"main"}, limits)
	})

	t.Run("rejects a second head", func(t *testing.T) {
		_, _, err := parseRevisions([]string{"a", "b"})
		require.Error(t, err)
	})
}
