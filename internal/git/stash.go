package git

import (
	"context"
	"fmt"
)

// IsDirty reports whether the working tree or index differs from HEAD,
// including untracked files
func (r *CommandRunner) IsDirty(ctx context.Context) (bool, error) {
	out, err := r.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// StashPush snapshots the working tree and index into the stash list and
// cleans the working tree. Returns false when there was nothing to stash.
func (r *CommandRunner) StashPush(ctx context.Context, message string) (bool, error) {
	dirty, err := r.IsDirty(ctx)
	if err != nil {
		return false, err
	}
	if !dirty {
		return false, nil
	}
	if _, err := r.Run(ctx, "stash", "push", "-q", "--include-untracked", "-m", message); err != nil {
		return false, fmt.Errorf("failed to stash working tree: %w", err)
	}
	return true, nil
}

// StashPop re-applies and drops a stash entry; ref selects the entry, the
// empty string means the most recent one
func (r *CommandRunner) StashPop(ctx context.Context, ref string) error {
	args := []string{"stash", "pop", "-q"}
	if ref != "" {
		args = append(args, ref)
	}
	if _, err := r.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to restore stashed working tree: %w", err)
	}
	return nil
}

// StashCreate snapshots the current dirty state as a dangling stash commit
// without touching the working tree. Returns the empty string when clean.
func (r *CommandRunner) StashCreate(ctx context.Context) (string, error) {
	return r.Run(ctx, "stash", "create")
}

// StashStore records a stash commit in the stash list so it is recoverable
func (r *CommandRunner) StashStore(ctx context.Context, sha, message string) error {
	if _, err := r.Run(ctx, "stash", "store", "-m", message, sha); err != nil {
		return fmt.Errorf("failed to store stash %s: %w", sha, err)
	}
	return nil
}
