package git

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// StrategyOption selects a three-way conflict-resolution policy
type StrategyOption string

const (
	// StrategyDefault resolves nothing; conflicts stop the operation
	StrategyDefault StrategyOption = ""
	// StrategyOurs resolves every conflict in favor of the current side
	StrategyOurs StrategyOption = "ours"
	// StrategyTheirs resolves every conflict in favor of the replayed side
	StrategyTheirs StrategyOption = "theirs"
)

// CherryPickOptions contains options for replaying a commit
type CherryPickOptions struct {
	Strategy      StrategyOption
	Mainline      int
	AllowEmpty    bool
	KeepRedundant bool
}

// CherryPick replays a commit onto HEAD and returns the new commit id
func (r *CommandRunner) CherryPick(ctx context.Context, rev string, opts CherryPickOptions) (plumbing.Hash, error) {
	args := []string{"cherry-pick"}

	if opts.Strategy != StrategyDefault {
		args = append(args, "-X", string(opts.Strategy))
	}
	if opts.Mainline > 0 {
		args = append(args, "-m", fmt.Sprintf("%d", opts.Mainline))
	}
	if opts.AllowEmpty {
		args = append(args, "--allow-empty")
	}
	if opts.KeepRedundant {
		args = append(args, "--keep-redundant-commits")
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

// CherryPickAbort aborts an in-progress cherry-pick, if any
func (r *CommandRunner) CherryPickAbort(ctx context.Context) {
	_, _ = r.Run(ctx, "cherry-pick", "--abort")
}

// CherryPickInProgress reports whether a cherry-pick is stopped mid-way
func (r *CommandRunner) CherryPickInProgress(ctx context.Context) bool {
	_, err := r.Run(ctx, "rev-parse", "-q", "--verify", "CHERRY_PICK_HEAD")
	return err == nil
}

// UnmergedFiles returns the paths still carrying conflict markers
func (r *CommandRunner) UnmergedFiles(ctx context.Context) ([]string, error) {
	return r.RunLines(ctx, "diff", "--name-only", "--diff-filter=U")
}
