package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	linerrors "linearize.dev/linearize/internal/errors"
	"linearize.dev/linearize/internal/git"
)

// compensatedCherryPick replays a single commit onto the current HEAD,
// preserving empty and redundant commits. A conflicted replay is retried with
// an ours-favoring strategy; in split mode the ours result is reproduced as a
// theirs-strategy commit followed by a compensation commit. mainline selects
// the parent to diff against when the commit is itself a merge.
func (e *Engine) compensatedCherryPick(ctx context.Context, commit plumbing.Hash, mainline int) error {
	if e.cfg.Recursive {
		msg, err := e.run.CommitMessage(ctx, commit.String())
		if err != nil {
			return err
		}
		if strings.HasPrefix(msg, prefixOursTheirs) {
			// Redundant compensation synthesized by an inner linearization.
			e.log.Debug("dropping redundant compensation %s", short(commit))
			return nil
		}
	}

	opts := git.CherryPickOptions{
		Mainline:      mainline,
		AllowEmpty:    true,
		KeepRedundant: true,
	}

	if _, ok := e.attemptCherryPick(ctx, commit, opts); ok {
		return nil
	}
	e.run.CherryPickAbort(ctx)
	e.log.Debug("cherry-pick of %s conflicted, compensating in %s mode", short(commit), e.cfg.OnConflict)

	opts.Strategy = git.StrategyOurs
	ours, ok := e.attemptCherryPick(ctx, commit, opts)
	if !ok {
		e.run.CherryPickAbort(ctx)
		return linerrors.NewCherryPickError(commit.String(), nil)
	}

	if e.cfg.OnConflict == ConflictMerge {
		return nil
	}

	// Split mode: a theirs-strategy commit followed by a compensation commit
	// restoring the ours result.
	if err := e.run.HardReset(ctx, "HEAD~1"); err != nil {
		return linerrors.NewCherryPickError(commit.String(), err)
	}
	opts.Strategy = git.StrategyTheirs
	if _, ok := e.attemptCherryPick(ctx, commit, opts); !ok {
		e.run.CherryPickAbort(ctx)
		return linerrors.NewCherryPickError(commit.String(), nil)
	}

	patch, err := e.run.DiffPatch(ctx, "HEAD", ours.String())
	if err != nil {
		return err
	}
	if err := e.run.ApplyIndex(ctx, patch); err != nil {
		return linerrors.NewApplyError(fmt.Sprintf("ours-theirs compensation for %s", short(commit)), err)
	}
	_, err = e.run.Commit(ctx, git.CommitOptions{
		Message:    fmt.Sprintf("%s %s", prefixOursTheirs, commit),
		AllowEmpty: true,
		NoVerify:   true,
	})
	return err
}

// attemptCherryPick runs one cherry-pick attempt and returns the resulting
// commit. A pick whose strategy resolved every conflict but produced an empty
// result is stopped by git; it is concluded with an empty commit here.
func (e *Engine) attemptCherryPick(ctx context.Context, commit plumbing.Hash, opts git.CherryPickOptions) (plumbing.Hash, bool) {
	if h, err := e.run.CherryPick(ctx, commit.String(), opts); err == nil {
		return h, true
	}

	if !e.run.CherryPickInProgress(ctx) {
		return plumbing.ZeroHash, false
	}
	unmerged, err := e.run.UnmergedFiles(ctx)
	if err != nil || len(unmerged) > 0 {
		return plumbing.ZeroHash, false
	}

	h, err := e.run.Commit(ctx, git.CommitOptions{AllowEmpty: true, NoVerify: true})
	if err != nil {
		return plumbing.ZeroHash, false
	}
	return h, true
}
