package engine

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"

	linerrors "linearize.dev/linearize/internal/errors"
)

// savedState is the pre-run snapshot the atomic guard restores on exit
type savedState struct {
	branch  string
	head    plumbing.Hash
	stashed bool
}

// runAtomic snapshots branch, HEAD and working tree, runs fn, and restores
// the snapshot whether fn succeeded or not. A failed restore is fatal and
// takes precedence over fn's own error.
func (e *Engine) runAtomic(ctx context.Context, fn func(context.Context) error) error {
	state, err := e.saveState(ctx)
	if err != nil {
		return err
	}

	innerErr := fn(ctx)

	// Restoration must run even when the inner action was canceled.
	restoreCtx := context.WithoutCancel(ctx)
	if restoreErr := e.restoreState(restoreCtx, state); restoreErr != nil {
		if innerErr != nil {
			e.log.Error("linearize failed before restore: %v", innerErr)
		}
		return restoreErr
	}
	return innerErr
}

func (e *Engine) saveState(ctx context.Context) (savedState, error) {
	branch, err := e.repo.CurrentBranch()
	if err != nil {
		return savedState{}, err
	}
	head, err := e.repo.HeadCommit()
	if err != nil {
		return savedState{}, err
	}

	stashed, err := e.run.StashPush(ctx, "linearize: entry snapshot")
	if err != nil {
		return savedState{}, err
	}
	if stashed {
		e.log.Debug("stashed dirty working tree before run")
	}

	return savedState{branch: branch, head: head, stashed: stashed}, nil
}

func (e *Engine) restoreState(ctx context.Context, s savedState) error {
	// Abort whatever a failed inner action left in flight. These are no-ops
	// when nothing is in progress.
	if e.run.IsRebaseInProgress(ctx) {
		e.run.RebaseAbort(ctx)
	}
	e.run.CherryPickAbort(ctx)
	e.run.MergeAbort(ctx)

	// Uncommitted scratch changes are preserved as a recoverable stash, then
	// cleared so the checkout below cannot fail on them. Storing the remnant
	// shifts the entry snapshot to stash@{1}.
	remnantStored := false
	dirty, err := e.run.IsDirty(ctx)
	if err != nil {
		return linerrors.NewRestoreError("inspect working tree", err)
	}
	if dirty {
		if remnant, createErr := e.run.StashCreate(ctx); createErr == nil && remnant != "" {
			if storeErr := e.run.StashStore(ctx, remnant, "linearize: remnant"); storeErr == nil {
				remnantStored = true
				e.log.Warn("stored uncommitted build state as stash %s, recover it with git stash", remnant[:8])
			}
		}
		if err := e.run.HardReset(ctx, "HEAD"); err != nil {
			return linerrors.NewRestoreError("clear scratch working tree", err)
		}
	}

	if s.branch == "" {
		cur, err := e.run.RevParse(ctx, "HEAD")
		if err != nil {
			return linerrors.NewRestoreError("read scratch HEAD", err)
		}
		if cur != s.head.String() {
			if err := e.run.CheckoutDetached(ctx, s.head.String()); err != nil {
				return linerrors.NewRestoreError("reset detached HEAD", err)
			}
		}
	} else {
		tip, err := e.run.RevParse(ctx, "refs/heads/"+s.branch)
		if err != nil || tip != s.head.String() {
			if err := e.run.ForceMoveBranch(ctx, s.branch, s.head.String()); err != nil {
				return linerrors.NewRestoreError("move branch "+s.branch, err)
			}
		}
		if err := e.run.CheckoutBranch(ctx, s.branch); err != nil {
			return linerrors.NewRestoreError("checkout branch "+s.branch, err)
		}
	}

	if s.stashed {
		entry := ""
		if remnantStored {
			entry = "stash@{1}"
		}
		if err := e.run.StashPop(ctx, entry); err != nil {
			return linerrors.NewRestoreError("re-apply entry snapshot", err)
		}
	}
	return nil
}
