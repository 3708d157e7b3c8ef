package engine

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	linerrors "linearize.dev/linearize/internal/errors"
	"linearize.dev/linearize/internal/git"
)

// resolveMergeConflict reproduces a merge whose recorded resolution is not
// equal to the default three-way result. It rebuilds the resolution off to
// the side as an ours-favoring merge plus a compensation commit, folds that
// two-commit sequence onto the current HEAD, and in merge conflict mode
// squashes the fold into a single commit carrying the original message.
func (e *Engine) resolveMergeConflict(ctx context.Context, merge plumbing.Hash) error {
	parents, err := e.run.Parents(ctx, merge.String())
	if err != nil {
		return err
	}
	if len(parents) != 2 {
		return linerrors.NewUnsupportedTopologyError(merge.String(), len(parents))
	}
	left, right := parents[0], parents[1]

	saved, err := e.run.RevParse(ctx, "HEAD")
	if err != nil {
		return err
	}

	if err := e.run.CheckoutDetached(ctx, left.String()); err != nil {
		return err
	}
	oursMerge, err := e.run.Merge(ctx, right.String(), git.MergeOptions{Strategy: git.StrategyOurs})
	if err != nil {
		e.run.MergeAbort(ctx)
		if coErr := e.run.CheckoutDetached(ctx, saved); coErr != nil {
			return coErr
		}
		return linerrors.NewMergeReplayError(merge.String(), err)
	}

	patch, err := e.run.DiffPatch(ctx, oursMerge.String(), merge.String())
	if err != nil {
		return err
	}
	if err := e.run.ApplyIndex(ctx, patch); err != nil {
		return linerrors.NewApplyError(fmt.Sprintf("resolution of merge %s", short(merge)), err)
	}
	fixup, err := e.run.Commit(ctx, git.CommitOptions{
		Message:    fmt.Sprintf("%s %s", prefixResolveMerge, merge),
		AllowEmpty: true,
		NoVerify:   true,
	})
	if err != nil {
		return err
	}

	if err := e.run.CheckoutDetached(ctx, saved); err != nil {
		return err
	}
	if err := e.compensatedCherryPick(ctx, oursMerge, 1); err != nil {
		return err
	}
	if err := e.compensatedCherryPick(ctx, fixup, 0); err != nil {
		return err
	}

	if e.cfg.OnConflict == ConflictMerge {
		message, err := e.run.CommitMessage(ctx, merge.String())
		if err != nil {
			return err
		}
		if err := e.run.SoftReset(ctx, saved); err != nil {
			return err
		}
		if _, err := e.run.Commit(ctx, git.CommitOptions{
			Message:    message,
			AllowEmpty: true,
			NoVerify:   true,
		}); err != nil {
			return err
		}
	}
	return nil
}
