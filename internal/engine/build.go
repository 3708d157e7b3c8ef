package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	linerrors "linearize.dev/linearize/internal/errors"
	"linearize.dev/linearize/internal/git"
)

// builder executes a reversed instruction stream against a scratch HEAD
type builder struct {
	e       *Engine
	started bool
	bases   []plumbing.Hash
}

// build consumes the instruction stream in execution order and returns the
// resulting linear chain
func (e *Engine) build(ctx context.Context, instrs []Instruction) (Result, error) {
	b := &builder{e: e}

	for i := 0; i < len(instrs); i++ {
		in := instrs[i]
		e.log.Debug("build: %s", in)

		var err error
		switch in.Op {
		case OpBase:
			err = b.execBase(ctx, in)
		case OpCompensate:
			err = e.compensatedRebase(ctx, []plumbing.Hash{in.Base}, in.Tip)
		case OpResolve:
			err = e.resolveMergeConflict(ctx, in.Merge)
		case OpPush:
			if e.cfg.Recursive && strings.HasSuffix(in.Path, "R") {
				i, err = b.execRecursivePush(ctx, instrs, i)
			}
		case OpPop:
			err = b.execPop(ctx, in)
		case OpEnd:
			err = b.execEnd(ctx, in)
		default:
			err = fmt.Errorf("unknown instruction %v", in.Op)
		}
		if err != nil {
			return Result{}, err
		}
	}

	tip, err := e.run.RevParse(ctx, "HEAD")
	if err != nil {
		return Result{}, err
	}
	tipHash, err := git.ParseHash(tip)
	if err != nil {
		return Result{}, err
	}
	return Result{Bases: b.bases, Tip: tipHash}, nil
}

// execBase initializes the scratch HEAD at the first base and merges any
// remaining bases in. Only the first non-empty base instruction counts;
// nested walks re-emit their own.
func (b *builder) execBase(ctx context.Context, in Instruction) error {
	if b.started || len(in.Bases) == 0 {
		return nil
	}

	if err := b.e.run.CheckoutDetached(ctx, in.Bases[0].String()); err != nil {
		return err
	}
	for _, extra := range in.Bases[1:] {
		if _, err := b.e.run.Merge(ctx, extra.String(), git.MergeOptions{}); err != nil {
			return err
		}
	}

	b.bases = in.Bases
	b.started = true
	return nil
}

// execRecursivePush linearizes a right subgraph in a nested atomic run and
// folds the resulting chain onto HEAD. When the subgraph opens the build, its
// linearized chain is adopted as-is. The inlined instructions of the subgraph
// are skipped; the matching pop still verifies the fold.
func (b *builder) execRecursivePush(ctx context.Context, instrs []Instruction, i int) (int, error) {
	in := instrs[i]
	b.e.log.Debug("recursively linearizing right subgraph at %s", short(in.Merge))

	res, err := b.e.linearizeNested(ctx, in.Merge, in.Limits)
	if err != nil {
		return i, err
	}

	if !b.started {
		if err := b.e.run.CheckoutDetached(ctx, res.Tip.String()); err != nil {
			return i, err
		}
		b.bases = res.Bases
		b.started = true
	} else if err := b.e.compensatedRebase(ctx, res.Bases, res.Tip); err != nil {
		return i, err
	}

	for j := i + 1; j < len(instrs); j++ {
		if instrs[j].Op == OpPop && instrs[j].Merge == in.Merge && instrs[j].Path == in.Path {
			return j - 1, nil
		}
	}
	return i, fmt.Errorf("no matching pop for merge %s", in.Merge)
}

// execPop asserts tree identity between the scratch HEAD and the merge whose
// subgraph was just rebuilt
func (b *builder) execPop(ctx context.Context, in Instruction) error {
	expected, err := b.e.run.TreeOf(ctx, in.Merge.String())
	if err != nil {
		return err
	}
	actual, err := b.e.run.TreeOf(ctx, "HEAD")
	if err != nil {
		return err
	}
	if expected != actual {
		return linerrors.NewPopInvariantError(in.Merge.String(), expected.String(), actual.String())
	}
	b.e.log.Debug("pop %s verified", short(in.Merge))
	return nil
}

// execEnd emits a final compensation if the linear HEAD's tree differs from
// the input head's tree
func (b *builder) execEnd(ctx context.Context, in Instruction) error {
	if !b.started {
		return linerrors.ErrNothingToLinearize
	}

	headTree, err := b.e.run.TreeOf(ctx, in.Head.String())
	if err != nil {
		return err
	}
	tipTree, err := b.e.run.TreeOf(ctx, "HEAD")
	if err != nil {
		return err
	}
	if headTree == tipTree {
		return nil
	}

	b.e.log.Warn("linear tip tree differs from %s, committing final fixup", short(in.Head))
	patch, err := b.e.run.DiffPatch(ctx, "HEAD", in.Head.String())
	if err != nil {
		return err
	}
	if err := b.e.run.ApplyIndex(ctx, patch); err != nil {
		return linerrors.NewApplyError(fmt.Sprintf("final fixup against %s", short(in.Head)), err)
	}
	_, err = b.e.run.Commit(ctx, git.CommitOptions{
		Message:    fmt.Sprintf("%s %s", prefixFinalFixup, in.Head),
		AllowEmpty: true,
		NoVerify:   true,
	})
	return err
}
