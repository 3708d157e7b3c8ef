package git

import (
	"context"
	"errors"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	linerrors "linearize.dev/linearize/internal/errors"
)

// TreeOf returns the tree id of a revision. This goes through the git binary
// so it sees commits created during the current run.
func (r *CommandRunner) TreeOf(ctx context.Context, rev string) (plumbing.Hash, error) {
	out, err := r.Run(ctx, "rev-parse", rev+"^{tree}")
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return ParseHash(out)
}

// MergeTreeResult is the outcome of an in-memory three-way merge probe
type MergeTreeResult struct {
	Tree       plumbing.Hash
	Conflicted bool
}

// MergeTree performs a real three-way merge of side onto base in memory,
// without touching the index or working tree, using merge-tree's write-tree
// mode. A conflicted probe still reports the (conflict-markered) tree id.
func (r *CommandRunner) MergeTree(ctx context.Context, base, side plumbing.Hash) (MergeTreeResult, error) {
	out, err := r.Run(ctx, "merge-tree", "--write-tree", "--no-messages", base.String(), side.String())
	if err != nil {
		// Exit status 1 means the merge completed with conflicts; the first
		// output line is still the written tree id.
		var cmdErr *linerrors.GitCommandError
		if errors.As(err, &cmdErr) {
			first := firstLine(cmdErr.Stdout)
			if h, parseErr := ParseHash(first); parseErr == nil {
				return MergeTreeResult{Tree: h, Conflicted: true}, nil
			}
		}
		return MergeTreeResult{}, err
	}

	h, err := ParseHash(firstLine(out))
	if err != nil {
		return MergeTreeResult{}, err
	}
	return MergeTreeResult{Tree: h}, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
