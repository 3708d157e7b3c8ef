package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"linearize.dev/linearize/internal/engine"
)

func TestParseConflictMode(t *testing.T) {
	mode, err := engine.ParseConflictMode("merge")
	require.NoError(t, err)
	require.Equal(t, engine.ConflictMerge, mode)

	mode, err = engine.ParseConflictMode("split")
	require.NoError(t, err)
	require.Equal(t, engine.ConflictSplit, mode)

	_, err = engine.ParseConflictMode("both")
	require.Error(t, err)
}

func TestConflictModeString(t *testing.T) {
	require.Equal(t, "merge", engine.ConflictMerge.String())
	require.Equal(t, "split", engine.ConflictSplit.String())
}
