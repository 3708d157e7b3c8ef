package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"linearize.dev/linearize/internal/engine"
	"linearize.dev/linearize/internal/git"
	"linearize.dev/linearize/testhelpers"
)

func TestReduceBases(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	repo := scene.Repo

	initial, err := repo.GetRevision("HEAD")
	require.NoError(t, err)

	require.NoError(t, repo.SetLineAndCommit("L_1", "M", "main: advance"))
	mainTip, err := repo.GetRevision("HEAD")
	require.NoError(t, err)

	require.NoError(t, repo.CheckoutDetached(initial))
	require.NoError(t, repo.Git("checkout", "-q", "-b", "q"))
	require.NoError(t, repo.SetLineAndCommit("L_2", "Q", "q: advance"))
	qTip, err := repo.GetRevision("HEAD")
	require.NoError(t, err)

	eng := newTestEngine(t, scene, engine.Config{Recursive: true})
	ctx := context.Background()

	t.Run("singleton is preserved", func(t *testing.T) {
		bases, err := eng.ReduceBases(ctx, []string{mainTip})
		require.NoError(t, err)
		require.Equal(t, []string{mainTip}, git.HashStrings(bases))
	})

	t.Run("ancestor is eliminated", func(t *testing.T) {
		bases, err := eng.ReduceBases(ctx, []string{initial, mainTip})
		require.NoError(t, err)
		require.Equal(t, []string{mainTip}, git.HashStrings(bases))
	})

	t.Run("independent commits survive", func(t *testing.T) {
		bases, err := eng.ReduceBases(ctx, []string{mainTip, qTip})
		require.NoError(t, err)
		require.ElementsMatch(t, []string{mainTip, qTip}, git.HashStrings(bases))
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		bases, err := eng.ReduceBases(ctx, []string{mainTip, mainTip})
		require.NoError(t, err)
		require.Equal(t, []string{mainTip}, git.HashStrings(bases))
	})

	t.Run("reduction is idempotent", func(t *testing.T) {
		once, err := eng.ReduceBases(ctx, []string{initial, mainTip, qTip})
		require.NoError(t, err)
		twice, err := eng.ReduceBases(ctx, git.HashStrings(once))
		require.NoError(t, err)
		require.Equal(t, once, twice)
	})
}
