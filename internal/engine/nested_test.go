package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"linearize.dev/linearize/internal/engine"
	"linearize.dev/linearize/testhelpers"
)

// nestedScene builds a reproducible top merge whose right side is itself a
// merge of two disjoint edits:
//
//	initial ── main: set L_1 ──────────────── Mtop
//	   ├────── r1: set L_4 ──── Mr ─────────────┘
//	   └────── r2: set L_5 ──────┘
func nestedScene(t *testing.T) (*testhelpers.Scene, string) {
	t.Helper()
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	repo := scene.Repo

	initial, err := repo.GetRevision("HEAD")
	require.NoError(t, err)

	require.NoError(t, repo.CreateAndCheckoutBranch("r1"))
	require.NoError(t, repo.SetLineAndCommit("L_4", "R1", "r1: set L_4"))

	require.NoError(t, repo.CheckoutDetached(initial))
	require.NoError(t, repo.Git("checkout", "-q", "-b", "r2"))
	require.NoError(t, repo.SetLineAndCommit("L_5", "R2", "r2: set L_5"))

	require.NoError(t, repo.CheckoutBranch("r1"))
	require.NoError(t, repo.Merge("r2", ""))

	require.NoError(t, repo.CheckoutBranch("main"))
	require.NoError(t, repo.SetLineAndCommit("L_1", "M", "main: set L_1"))
	require.NoError(t, repo.Merge("r1", ""))

	head, err := repo.GetRevision("HEAD")
	require.NoError(t, err)
	return scene, head
}

func TestLinearizeNestedMerge(t *testing.T) {
	for _, recursive := range []bool{true, false} {
		name := "recursive"
		if !recursive {
			name = "inline"
		}
		t.Run(name, func(t *testing.T) {
			scene, head := nestedScene(t)

			headTree, err := scene.Repo.TreeHash(head)
			require.NoError(t, err)

			eng := newTestEngine(t, scene, engine.Config{Recursive: recursive})
			res, err := eng.Linearize(context.Background(), head, nil)
			require.NoError(t, err)

			tipTree, err := scene.Repo.TreeHash(res.Tip.String())
			require.NoError(t, err)
			require.Equal(t, headTree, tipTree)

			linear, err := scene.Repo.IsLinear(res.Base().String(), res.Tip.String())
			require.NoError(t, err)
			require.True(t, linear)

			for name, want := range map[string]string{"L_1": "M", "L_4": "R1", "L_5": "R2"} {
				got, err := scene.Repo.GitOutput("show", res.Tip.String()+":"+name)
				require.NoError(t, err)
				require.Equal(t, want, got, name)
			}
		})
	}
}
