package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// RevListEntry is one commit from a rev-list walk, with its full parent list
type RevListEntry struct {
	Hash    plumbing.Hash
	Parents []plumbing.Hash
}

// IsMerge reports whether the commit has two parents
func (e RevListEntry) IsMerge() bool {
	return len(e.Parents) == 2
}

// limitArgs renders ancestor exclusions as ^<id> revision arguments
func limitArgs(limits []plumbing.Hash) []string {
	args := make([]string, 0, len(limits))
	for _, l := range limits {
		args = append(args, "^"+l.String())
	}
	return args
}

// RevList walks head excluding the ancestors of limits, newest first in
// topological order, and returns each commit with its parents.
func (r *CommandRunner) RevList(ctx context.Context, head plumbing.Hash, limits []plumbing.Hash) ([]RevListEntry, error) {
	args := append([]string{"rev-list", "--topo-order", "--parents", head.String()}, limitArgs(limits)...)
	lines, err := r.RunLines(ctx, args...)
	if err != nil {
		return nil, err
	}

	entries := make([]RevListEntry, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)
		hashes, err := ParseHashes(tokens...)
		if err != nil {
			return nil, fmt.Errorf("malformed rev-list line %q: %w", line, err)
		}
		entries = append(entries, RevListEntry{Hash: hashes[0], Parents: hashes[1:]})
	}
	return entries, nil
}

// RevListBoundary returns the boundary commits of the range: the excluded
// ancestors that directly bound the walk.
func (r *CommandRunner) RevListBoundary(ctx context.Context, head plumbing.Hash, limits []plumbing.Hash) ([]plumbing.Hash, error) {
	args := append([]string{"rev-list", "--topo-order", "--boundary", head.String()}, limitArgs(limits)...)
	lines, err := r.RunLines(ctx, args...)
	if err != nil {
		return nil, err
	}

	var boundary []plumbing.Hash
	for _, line := range lines {
		if !strings.HasPrefix(line, "-") {
			continue
		}
		h, err := ParseHash(strings.TrimPrefix(line, "-"))
		if err != nil {
			return nil, fmt.Errorf("malformed boundary line %q: %w", line, err)
		}
		boundary = append(boundary, h)
	}
	return boundary, nil
}

// Parents returns the parent ids of a commit
func (r *CommandRunner) Parents(ctx context.Context, rev string) ([]plumbing.Hash, error) {
	line, err := r.Run(ctx, "rev-list", "--parents", "-n", "1", rev)
	if err != nil {
		return nil, err
	}
	hashes, err := ParseHashes(strings.Fields(line)...)
	if err != nil {
		return nil, fmt.Errorf("malformed rev-list line %q: %w", line, err)
	}
	return hashes[1:], nil
}

// CommitMessage returns the full commit message of a revision
func (r *CommandRunner) CommitMessage(ctx context.Context, rev string) (string, error) {
	return r.Run(ctx, "log", "-1", "--format=%B", rev)
}
