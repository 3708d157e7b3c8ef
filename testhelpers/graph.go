package testhelpers

// Graph holds the revisions of the standard branch-and-merge fixture:
//
//	initial ── b: set L_3 ── M(b ⟵ c, ours) ── d: set L_3 ── E(d ⟵ x, empty)
//	   ├────── c: set L_3 ── c: set L_5 ──────┘                 │
//	   └────── x: set L_4 ──────────────────────────────────────┘
//
// The b merge prefers ours on the conflicting L_3 change and keeps the
// non-conflicting L_5 change. The e merge uses the ours merge strategy, so
// its tree equals d's tree. The final tree is L_1=A, L_2=A, L_3=D, L_4=A,
// L_5=C.
type Graph struct {
	Initial string
	C       string
	B       string
	D       string
	X       string
	E       string
}

// BuildGraph constructs the fixture in the scene's repository and leaves
// branch e checked out
func BuildGraph(scene *Scene) (*Graph, error) {
	repo := scene.Repo
	g := &Graph{}

	if err := BasicSceneSetup(scene); err != nil {
		return nil, err
	}
	var err error
	if g.Initial, err = repo.GetRevision("HEAD"); err != nil {
		return nil, err
	}

	// c: two independent edits, one of them conflicting with b
	if err := repo.CreateAndCheckoutBranch("c"); err != nil {
		return nil, err
	}
	if err := repo.SetLineAndCommit("L_3", "C", "c: set L_3"); err != nil {
		return nil, err
	}
	if err := repo.SetLineAndCommit("L_5", "C", "c: set L_5"); err != nil {
		return nil, err
	}
	if g.C, err = repo.GetRevision("HEAD"); err != nil {
		return nil, err
	}

	// b: conflicting edit, then an ours-preferring merge of c
	if err := repo.CheckoutBranch("main"); err != nil {
		return nil, err
	}
	if err := repo.CreateAndCheckoutBranch("b"); err != nil {
		return nil, err
	}
	if err := repo.SetLineAndCommit("L_3", "B", "b: set L_3"); err != nil {
		return nil, err
	}
	if err := repo.Merge("c", "ours"); err != nil {
		return nil, err
	}
	if g.B, err = repo.GetRevision("HEAD"); err != nil {
		return nil, err
	}

	// d: continues on top of the conflicted merge
	if err := repo.CreateAndCheckoutBranch("d"); err != nil {
		return nil, err
	}
	if err := repo.SetLineAndCommit("L_3", "D", "d: set L_3"); err != nil {
		return nil, err
	}
	if g.D, err = repo.GetRevision("HEAD"); err != nil {
		return nil, err
	}

	// x: a side branch whose content the final merge discards entirely
	if err := repo.CheckoutDetached(g.Initial); err != nil {
		return nil, err
	}
	if err := repo.Git("checkout", "-q", "-b", "x"); err != nil {
		return nil, err
	}
	if err := repo.SetLineAndCommit("L_4", "X", "x: set L_4"); err != nil {
		return nil, err
	}
	if g.X, err = repo.GetRevision("HEAD"); err != nil {
		return nil, err
	}

	// e: an empty merge, tree identical to d's
	if err := repo.CheckoutBranch("d"); err != nil {
		return nil, err
	}
	if err := repo.Git("checkout", "-q", "-b", "e"); err != nil {
		return nil, err
	}
	if err := repo.MergeStrategyOurs("x"); err != nil {
		return nil, err
	}
	if g.E, err = repo.GetRevision("HEAD"); err != nil {
		return nil, err
	}

	return g, nil
}
