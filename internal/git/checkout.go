package git

import (
	"context"
	"fmt"
)

// CheckoutDetached checks out a revision in detached HEAD state
func (r *CommandRunner) CheckoutDetached(ctx context.Context, rev string) error {
	_, err := r.Run(ctx, "checkout", "-q", "--detach", rev)
	if err != nil {
		return fmt.Errorf("failed to checkout %s: %w", rev, err)
	}
	return nil
}

// CheckoutBranch checks out a branch
func (r *CommandRunner) CheckoutBranch(ctx context.Context, branchName string) error {
	_, err := r.Run(ctx, "checkout", "-q", branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branchName, err)
	}
	return nil
}

// ForceMoveBranch repoints a branch ref at a revision without checking it out
func (r *CommandRunner) ForceMoveBranch(ctx context.Context, branchName, rev string) error {
	_, err := r.Run(ctx, "branch", "-f", branchName, rev)
	if err != nil {
		return fmt.Errorf("failed to move branch %s to %s: %w", branchName, rev, err)
	}
	return nil
}

// CurrentBranch returns the checked-out branch name, empty when detached
func (r *CommandRunner) CurrentBranch(ctx context.Context) (string, error) {
	return r.Run(ctx, "branch", "--show-current")
}
