package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"linearize.dev/linearize/internal/output"
	"linearize.dev/linearize/testhelpers"
)

// snapshot captures the externally observable repository state
type stateSnapshot struct {
	branch string
	head   string
	status string
}

func takeSnapshot(t *testing.T, scene *testhelpers.Scene) stateSnapshot {
	t.Helper()
	branch, err := scene.Repo.CurrentBranchName()
	require.NoError(t, err)
	head, err := scene.Repo.GetRevision("HEAD")
	require.NoError(t, err)
	status, err := scene.Repo.StatusPorcelain()
	require.NoError(t, err)
	return stateSnapshot{branch: branch, head: head, status: status}
}

func TestRunAtomicRestoresStateAfterFailure(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.SetLineAndCommit("L_1", "B", "second"))

	// a dirty working tree must survive the run
	require.NoError(t, scene.Repo.SetLine("L_2", "dirty"))

	eng, err := New(scene.Dir, Config{Recursive: true}, output.NewSplog())
	require.NoError(t, err)

	before := takeSnapshot(t, scene)
	boom := errors.New("boom")

	err = eng.runAtomic(context.Background(), func(ctx context.Context) error {
		// simulate a partial build: detach, commit scratch work, leave the
		// tree dirty
		if err := eng.run.CheckoutDetached(ctx, "HEAD~1"); err != nil {
			return err
		}
		if err := scene.Repo.SetLineAndCommit("L_3", "scratch", "scratch commit"); err != nil {
			return err
		}
		if err := scene.Repo.SetLine("L_4", "half-done"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	after := takeSnapshot(t, scene)
	require.Equal(t, before, after)

	value, err := scene.Repo.ReadLine("L_2")
	require.NoError(t, err)
	require.Equal(t, "dirty", value)
}

func TestRunAtomicRestoresDetachedHead(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.SetLineAndCommit("L_1", "B", "second"))
	require.NoError(t, scene.Repo.CheckoutDetached("HEAD"))

	eng, err := New(scene.Dir, Config{Recursive: true}, output.NewSplog())
	require.NoError(t, err)

	before := takeSnapshot(t, scene)

	err = eng.runAtomic(context.Background(), func(ctx context.Context) error {
		return eng.run.CheckoutDetached(ctx, "HEAD~1")
	})
	require.NoError(t, err)

	after := takeSnapshot(t, scene)
	require.Equal(t, before, after)
}

func TestLinearizeFailureLeavesRepositoryUntouched(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	repo := scene.Repo

	initial, err := repo.GetRevision("HEAD")
	require.NoError(t, err)

	// an octopus merge in the history makes the plan fail
	require.NoError(t, repo.CreateAndCheckoutBranch("o1"))
	require.NoError(t, repo.SetLineAndCommit("L_1", "O1", "o1: set L_1"))
	require.NoError(t, repo.CheckoutDetached(initial))
	require.NoError(t, repo.Git("checkout", "-q", "-b", "o2"))
	require.NoError(t, repo.SetLineAndCommit("L_2", "O2", "o2: set L_2"))
	require.NoError(t, repo.CheckoutBranch("main"))
	require.NoError(t, repo.Git("merge", "-q", "--no-edit", "--no-ff", "o1", "o2"))
	require.NoError(t, repo.SetLineAndCommit("L_3", "T", "after octopus"))

	eng, err := New(scene.Dir, Config{Recursive: true}, output.NewSplog())
	require.NoError(t, err)

	before := takeSnapshot(t, scene)

	_, err = eng.Linearize(context.Background(), "HEAD", nil)
	require.Error(t, err)

	after := takeSnapshot(t, scene)
	require.Equal(t, before, after)
}
