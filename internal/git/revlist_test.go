package git_test

import (
	"context"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"

	"linearize.dev/linearize/internal/git"
	"linearize.dev/linearize/testhelpers"
)

// mergeScene builds main ── f ── merge with non-conflicting edits
func mergeScene(t *testing.T) (*testhelpers.Scene, *git.CommandRunner) {
	t.Helper()
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	repo := scene.Repo

	require.NoError(t, repo.CreateAndCheckoutBranch("f"))
	require.NoError(t, repo.SetLineAndCommit("L_2", "F", "f: set L_2"))
	require.NoError(t, repo.CheckoutBranch("main"))
	require.NoError(t, repo.SetLineAndCommit("L_1", "M", "main: set L_1"))
	require.NoError(t, repo.Merge("f", ""))

	return scene, git.NewCommandRunner(scene.Dir)
}

func TestRevList(t *testing.T) {
	scene, run := mergeScene(t)
	ctx := context.Background()

	head, err := scene.Repo.GetRevision("HEAD")
	require.NoError(t, err)
	headHash, err := git.ParseHash(head)
	require.NoError(t, err)

	entries, err := run.RevList(ctx, headHash, nil)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	require.Equal(t, headHash, entries[0].Hash)
	require.True(t, entries[0].IsMerge())
	require.Len(t, entries[0].Parents, 2)

	// the root commit closes the walk
	require.Empty(t, entries[len(entries)-1].Parents)
}

func TestRevListBoundary(t *testing.T) {
	scene, run := mergeScene(t)
	ctx := context.Background()

	// walking the f side bounded by the main parent bottoms out at the fork
	fTip, err := scene.Repo.GetRevision("HEAD^2")
	require.NoError(t, err)
	fHash, err := git.ParseHash(fTip)
	require.NoError(t, err)

	mainParent, err := scene.Repo.GetRevision("HEAD^1")
	require.NoError(t, err)
	mainHash, err := git.ParseHash(mainParent)
	require.NoError(t, err)

	fork, err := scene.Repo.GetRevision("HEAD^1~1")
	require.NoError(t, err)

	boundary, err := run.RevListBoundary(ctx, fHash, []plumbing.Hash{mainHash})
	require.NoError(t, err)
	require.Equal(t, []string{fork}, git.HashStrings(boundary))
}

func TestParents(t *testing.T) {
	scene, run := mergeScene(t)
	ctx := context.Background()

	parents, err := run.Parents(ctx, "HEAD")
	require.NoError(t, err)
	require.Len(t, parents, 2)

	mainParent, err := scene.Repo.GetRevision("HEAD^1")
	require.NoError(t, err)
	require.Equal(t, mainParent, parents[0].String())

	rootParents, err := run.Parents(ctx, "HEAD^1~1")
	require.NoError(t, err)
	require.Empty(t, rootParents)
}

func TestCommitMessage(t *testing.T) {
	_, run := mergeScene(t)
	ctx := context.Background()

	msg, err := run.CommitMessage(ctx, "HEAD^1")
	require.NoError(t, err)
	require.Equal(t, "main: set L_1", msg)
}
