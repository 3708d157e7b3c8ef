package engine

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	linerrors "linearize.dev/linearize/internal/errors"
	"linearize.dev/linearize/internal/git"
)

// maxWalkDepth bounds planner recursion. The depth grows by one for every
// chain segment and every merge the walk descends into, so it counts all
// merges along a walked path, sequential ones included, not only nested ones.
const maxWalkDepth = 1000

// planner walks the input DAG from tip to base and emits the instruction
// stream in reverse chronological intent. Planning never touches the index
// or the working tree: tree reads go through go-git over the immutable input
// graph, and the broken-merge probe uses merge-tree's in-memory mode.
type planner struct {
	e      *Engine
	instrs []Instruction
}

// plan emits the instruction stream for (limits, head] in emission order.
// The caller reverses it before execution.
func (e *Engine) plan(ctx context.Context, head plumbing.Hash, limits []plumbing.Hash) ([]Instruction, error) {
	p := &planner{e: e}
	p.emit(Instruction{Op: OpEnd, Head: head})
	if err := p.walk(ctx, head, limits, "", 0); err != nil {
		return nil, err
	}
	return p.instrs, nil
}

func (p *planner) emit(in Instruction) {
	p.instrs = append(p.instrs, in)
}

// walk dispatches on the parent count of the newest commit in the range
func (p *planner) walk(ctx context.Context, head plumbing.Hash, limits []plumbing.Hash, path string, depth int) error {
	if depth > maxWalkDepth {
		return fmt.Errorf("merge nesting exceeds %d levels at %s", maxWalkDepth, head)
	}

	entries, err := p.e.run.RevList(ctx, head, limits)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	tip := entries[0]
	switch len(tip.Parents) {
	case 2:
		return p.walkMerge(ctx, tip, limits, path, depth)
	case 1:
		return p.walkChain(ctx, entries, head, limits, path, depth)
	case 0:
		// A range whose tip is a root commit: there is nothing to replay it
		// onto and no precedent for what the caller wants.
		return fmt.Errorf("%w: %s", linerrors.ErrRootRange, tip.Hash)
	default:
		return linerrors.NewUnsupportedTopologyError(tip.Hash.String(), len(tip.Parents))
	}
}

// walkChain handles a range whose newest commit is not a merge: the prefix up
// to the most recent merge is replayed wholesale, then the walk continues at
// the merge.
func (p *planner) walkChain(ctx context.Context, entries []git.RevListEntry, head plumbing.Hash, limits []plumbing.Hash, path string, depth int) error {
	for _, entry := range entries {
		if len(entry.Parents) < 2 {
			continue
		}
		p.emit(Instruction{Op: OpCompensate, Base: entry.Hash, Tip: head})
		return p.walk(ctx, entry.Hash, limits, path, depth+1)
	}

	// No merge in range: the chain bottoms out at a boundary commit, or at
	// its own root when nothing bounds the walk.
	bases, err := p.rangeBases(ctx, head, limits)
	if err != nil {
		return err
	}
	if len(bases) == 0 {
		root := entries[len(entries)-1]
		bases = []plumbing.Hash{root.Hash}
	}

	p.emit(Instruction{Op: OpCompensate, Base: bases[0], Tip: head})
	p.emit(Instruction{Op: OpBase, Bases: bases})
	return nil
}

// walkMerge handles a range whose newest commit is a two-parent merge
func (p *planner) walkMerge(ctx context.Context, tip git.RevListEntry, limits []plumbing.Hash, path string, depth int) error {
	merge := tip.Hash
	left, right := tip.Parents[0], tip.Parents[1]

	p.emit(Instruction{Op: OpPop, Merge: merge, Path: path})

	mergeTree, err := p.e.repo.TreeHash(merge)
	if err != nil {
		return err
	}
	leftTree, err := p.e.repo.TreeHash(left)
	if err != nil {
		return err
	}

	// Classify the merge before descending. An empty merge drops its whole
	// right subtree; a broken one is rebuilt by resolve-merge-conflict
	// instead of replaying its right side.
	walkRight := false
	switch {
	case mergeTree == leftTree:
		p.e.log.Warn("eliminating empty merge %s", short(merge))
	default:
		broken, err := p.isBrokenMerge(ctx, left, right, mergeTree)
		if err != nil {
			return err
		}
		if broken {
			p.e.log.Debug("merge %s is not reproducible by the default strategy", short(merge))
			p.emit(Instruction{Op: OpResolve, Merge: merge})
		} else {
			walkRight = true
		}
	}

	// The left walk is emitted first so that after reversal the right
	// subtree sits below the left chain: the replayed left commits on top of
	// the right content reproduce the merge tree at the pop point.
	if err := p.walk(ctx, left, limits, path+"L", depth+1); err != nil {
		return err
	}
	if walkRight {
		if err := p.walk(ctx, right, appendLimit(limits, left), path+"R", depth+1); err != nil {
			return err
		}
	}

	bases, err := p.rangeBases(ctx, merge, limits)
	if err != nil {
		return err
	}
	if len(bases) > 0 {
		p.emit(Instruction{Op: OpBase, Bases: bases})
	}

	p.emit(Instruction{Op: OpPush, Merge: merge, Path: path, Limits: limits})
	return nil
}

// isBrokenMerge probes whether the default three-way strategy reproduces the
// recorded merge tree
func (p *planner) isBrokenMerge(ctx context.Context, left, right, mergeTree plumbing.Hash) (bool, error) {
	probe, err := p.e.run.MergeTree(ctx, left, right)
	if err != nil {
		return false, err
	}
	return probe.Conflicted || probe.Tree != mergeTree, nil
}

// rangeBases returns the reduced boundary set of the range
func (p *planner) rangeBases(ctx context.Context, head plumbing.Hash, limits []plumbing.Hash) ([]plumbing.Hash, error) {
	boundary, err := p.e.run.RevListBoundary(ctx, head, limits)
	if err != nil {
		return nil, err
	}
	return p.e.reduceBases(boundary)
}

// appendLimit extends a limit set without aliasing the caller's slice
func appendLimit(limits []plumbing.Hash, extra plumbing.Hash) []plumbing.Hash {
	result := make([]plumbing.Hash, 0, len(limits)+1)
	result = append(result, limits...)
	return append(result, extra)
}
