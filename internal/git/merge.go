package git

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"
)

// MergeOptions contains options for merging a revision into HEAD
type MergeOptions struct {
	Strategy StrategyOption
}

// Merge merges a revision into HEAD, passing opts.Strategy as a -X option when
// set, and returns the resulting commit id
func (r *CommandRunner) Merge(ctx context.Context, rev string, opts MergeOptions) (plumbing.Hash, error) {
	args := []string{"merge", "-q", "--no-edit", "--no-ff"}
	if opts.Strategy != StrategyDefault {
		args = append(args, "-X", string(opts.Strategy))
	}
	args = append(args, rev)

	if _, err := r.Run(ctx, args...); err != nil {
		return plumbing.ZeroHash, err
	}

	out, err := r.RevParse(ctx, "HEAD")
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return ParseHash(out)
}

// MergeAbort aborts an in-progress merge, if any
func (r *CommandRunner) MergeAbort(ctx context.Context) {
	_, _ = r.Run(ctx, "merge", "--abort")
}
