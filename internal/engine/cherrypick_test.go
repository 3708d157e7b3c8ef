package engine_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"linearize.dev/linearize/internal/engine"
	"linearize.dev/linearize/testhelpers"
)

// conflictScene builds a repository where cherry-picking the side commit
// onto main conflicts on L_3
func conflictScene(t *testing.T) (*testhelpers.Scene, string) {
	t.Helper()
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	repo := scene.Repo

	require.NoError(t, repo.CreateAndCheckoutBranch("side"))
	require.NoError(t, repo.SetLineAndCommit("L_3", "S", "side: set L_3"))
	side, err := repo.GetRevision("HEAD")
	require.NoError(t, err)

	require.NoError(t, repo.CheckoutBranch("main"))
	require.NoError(t, repo.SetLineAndCommit("L_3", "M", "main: set L_3"))
	require.NoError(t, repo.CheckoutDetached("main"))

	return scene, side
}

func TestCompensatedCherryPick(t *testing.T) {
	t.Run("clean pick applies as-is", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		repo := scene.Repo

		require.NoError(t, repo.CreateAndCheckoutBranch("side"))
		require.NoError(t, repo.SetLineAndCommit("L_4", "S", "side: set L_4"))
		side, err := repo.GetRevision("HEAD")
		require.NoError(t, err)
		require.NoError(t, repo.CheckoutDetached("main"))

		eng := newTestEngine(t, scene, engine.Config{Recursive: true})
		require.NoError(t, eng.CompensatedCherryPick(context.Background(), side))

		value, err := repo.ReadLine("L_4")
		require.NoError(t, err)
		require.Equal(t, "S", value)
	})

	t.Run("merge mode replaces the conflict with one ours commit", func(t *testing.T) {
		scene, side := conflictScene(t)
		repo := scene.Repo

		before, err := repo.GetRevision("HEAD")
		require.NoError(t, err)

		eng := newTestEngine(t, scene, engine.Config{Recursive: true, OnConflict: engine.ConflictMerge})
		require.NoError(t, eng.CompensatedCherryPick(context.Background(), side))

		count, err := repo.CountCommits(before, "HEAD")
		require.NoError(t, err)
		require.Equal(t, 1, count)

		value, err := repo.ReadLine("L_3")
		require.NoError(t, err)
		require.Equal(t, "M", value)
	})

	t.Run("split mode adds a compensation after a theirs commit", func(t *testing.T) {
		scene, side := conflictScene(t)
		repo := scene.Repo

		before, err := repo.GetRevision("HEAD")
		require.NoError(t, err)

		eng := newTestEngine(t, scene, engine.Config{Recursive: true, OnConflict: engine.ConflictSplit})
		require.NoError(t, eng.CompensatedCherryPick(context.Background(), side))

		count, err := repo.CountCommits(before, "HEAD")
		require.NoError(t, err)
		require.Equal(t, 2, count)

		messages, err := repo.ListCommitMessages(before, "HEAD")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(messages[0], "COMPENSATION: ours-theirs:"), messages[0])
		require.Equal(t, "side: set L_3", messages[1])

		// the theirs commit records the side content, the compensation
		// restores the ours result
		theirs, err := repo.GitOutput("show", "HEAD~1:L_3")
		require.NoError(t, err)
		require.Equal(t, "S", theirs)
		value, err := repo.ReadLine("L_3")
		require.NoError(t, err)
		require.Equal(t, "M", value)
	})

	t.Run("recursive runs drop redundant compensations", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		repo := scene.Repo

		require.NoError(t, repo.CreateAndCheckoutBranch("side"))
		require.NoError(t, repo.SetLine("L_5", "S"))
		require.NoError(t, repo.Git("add", "-A"))
		require.NoError(t, repo.Git("commit", "-q", "-m", "COMPENSATION: ours-theirs: 0000000000000000000000000000000000000000"))
		side, err := repo.GetRevision("HEAD")
		require.NoError(t, err)

		require.NoError(t, repo.CheckoutDetached("main"))
		before, err := repo.GetRevision("HEAD")
		require.NoError(t, err)

		eng := newTestEngine(t, scene, engine.Config{Recursive: true})
		require.NoError(t, eng.CompensatedCherryPick(context.Background(), side))

		after, err := repo.GetRevision("HEAD")
		require.NoError(t, err)
		require.Equal(t, before, after)
	})
}
