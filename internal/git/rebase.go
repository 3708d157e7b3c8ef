package git

import (
	"context"
	"os"
	"path/filepath"
)

// RebaseOnto replays (base, tip] onto the given revision, keeping empty
// commits. On success HEAD is left detached at the rebased tip.
func (r *CommandRunner) RebaseOnto(ctx context.Context, onto, base, tip string) error {
	_, err := r.Run(ctx, "rebase", "-q", "--empty=keep", "--reapply-cherry-picks", "--onto", onto, base, tip)
	return err
}

// RebaseAbort aborts an in-progress rebase, if any
func (r *CommandRunner) RebaseAbort(ctx context.Context) {
	_, _ = r.Run(ctx, "rebase", "--abort")
}

// IsRebaseInProgress checks if a rebase is currently in progress
func (r *CommandRunner) IsRebaseInProgress(ctx context.Context) bool {
	gitDir, err := r.Run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-merge")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-apply")); err == nil {
		return true
	}
	return false
}
