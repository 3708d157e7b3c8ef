package git

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// CommitOptions contains options for creating a commit
type CommitOptions struct {
	Message    string
	AllowEmpty bool
	Amend      bool
	NoVerify   bool
}

// Commit creates a commit from the current index and returns its id
func (r *CommandRunner) Commit(ctx context.Context, opts CommitOptions) (plumbing.Hash, error) {
	args := []string{"commit", "-q", "--no-edit"}

	if opts.AllowEmpty {
		args = append(args, "--allow-empty")
	}
	if opts.Amend {
		args = append(args, "--amend")
	}
	if opts.NoVerify {
		args = append(args, "--no-verify")
	}
	if opts.Message != "" {
		args = append(args, "-m", opts.Message)
	}

	if _, err := r.Run(ctx, args...); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to commit: %w", err)
	}

	out, err := r.RevParse(ctx, "HEAD")
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return ParseHash(out)
}
