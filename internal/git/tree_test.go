package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"linearize.dev/linearize/internal/git"
	"linearize.dev/linearize/testhelpers"
)

func TestTreeOf(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	run := git.NewCommandRunner(scene.Dir)

	want, err := scene.Repo.TreeHash("HEAD")
	require.NoError(t, err)

	tree, err := run.TreeOf(context.Background(), "HEAD")
	require.NoError(t, err)
	require.Equal(t, want, tree.String())
}

func TestMergeTree(t *testing.T) {
	t.Run("clean merge reports the merged tree", func(t *testing.T) {
		scene, run := mergeScene(t)
		ctx := context.Background()

		left, err := run.Parents(ctx, "HEAD")
		require.NoError(t, err)

		probe, err := run.MergeTree(ctx, left[0], left[1])
		require.NoError(t, err)
		require.False(t, probe.Conflicted)

		// the probe reproduces the recorded merge exactly
		want, err := scene.Repo.TreeHash("HEAD")
		require.NoError(t, err)
		require.Equal(t, want, probe.Tree.String())
	})

	t.Run("conflicting merge is flagged", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		repo := scene.Repo
		run := git.NewCommandRunner(scene.Dir)

		require.NoError(t, repo.CreateAndCheckoutBranch("side"))
		require.NoError(t, repo.SetLineAndCommit("L_3", "S", "side: set L_3"))
		side, err := repo.GetRevision("HEAD")
		require.NoError(t, err)

		require.NoError(t, repo.CheckoutBranch("main"))
		require.NoError(t, repo.SetLineAndCommit("L_3", "M", "main: set L_3"))
		main, err := repo.GetRevision("HEAD")
		require.NoError(t, err)

		mainHash, err := git.ParseHash(main)
		require.NoError(t, err)
		sideHash, err := git.ParseHash(side)
		require.NoError(t, err)

		probe, err := run.MergeTree(context.Background(), mainHash, sideHash)
		require.NoError(t, err)
		require.True(t, probe.Conflicted)
	})
}
