// Package engine implements the history linearization core: planning a
// traversal of the commit DAG, rebuilding it as a chain of non-merge commits,
// and guarding the repository state against partial failure.
package engine

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"

	"linearize.dev/linearize/internal/git"
	"linearize.dev/linearize/internal/output"
)

// Engine linearizes commit graphs of a single repository. It is not safe for
// concurrent use; a run exclusively mutates HEAD, the index and the working
// tree until it completes.
type Engine struct {
	repo *git.Repository
	run  *git.CommandRunner
	cfg  Config
	log  *output.Splog
}

// New creates an engine for the repository at repoRoot
func New(repoRoot string, cfg Config, log *output.Splog) (*Engine, error) {
	repo, err := git.OpenRepository(repoRoot)
	if err != nil {
		return nil, err
	}

	return &Engine{
		repo: repo,
		run:  git.NewCommandRunner(repoRoot),
		cfg:  cfg,
		log:  log,
	}, nil
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// Runner returns the engine's command runner
func (e *Engine) Runner() *git.CommandRunner {
	return e.run
}

// Result describes a finished linearization: the base the chain was built on
// and the linear tip, whose tree equals the input head's tree.
type Result struct {
	Bases []plumbing.Hash
	Tip   plumbing.Hash
}

// Base returns the primary base commit
func (r Result) Base() plumbing.Hash {
	if len(r.Bases) == 0 {
		return plumbing.ZeroHash
	}
	return r.Bases[0]
}

// Linearize plans and rebuilds head as a linear chain, excluding the
// ancestors of limits. The whole run is wrapped in the atomic guard: on any
// failure the repository state is restored to the pre-run snapshot.
func (e *Engine) Linearize(ctx context.Context, head string, limits []string) (Result, error) {
	headHash, limitHashes, err := e.resolveRange(ctx, head, limits)
	if err != nil {
		return Result{}, err
	}

	var res Result
	err = e.runAtomic(ctx, func(ctx context.Context) error {
		var innerErr error
		res, innerErr = e.linearizeRange(ctx, headHash, limitHashes)
		return innerErr
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// linearizeRange is the unguarded plan-reverse-build pipeline
func (e *Engine) linearizeRange(ctx context.Context, head plumbing.Hash, limits []plumbing.Hash) (Result, error) {
	instrs, err := e.plan(ctx, head, limits)
	if err != nil {
		return Result{}, err
	}
	return e.build(ctx, reverse(instrs))
}

// linearizeNested runs a full linearization of a right subgraph inside its
// own atomic guard, so its failure does not pollute the outer scratch state.
func (e *Engine) linearizeNested(ctx context.Context, head plumbing.Hash, limits []plumbing.Hash) (Result, error) {
	var res Result
	err := e.runAtomic(ctx, func(ctx context.Context) error {
		var innerErr error
		res, innerErr = e.linearizeRange(ctx, head, limits)
		return innerErr
	})
	return res, err
}

// Plan resolves head and limits and returns the instruction stream in
// execution order. Exposed for the plan subcommand and plan-level tests.
func (e *Engine) Plan(ctx context.Context, head string, limits []string) ([]Instruction, error) {
	headHash, limitHashes, err := e.resolveRange(ctx, head, limits)
	if err != nil {
		return nil, err
	}
	instrs, err := e.plan(ctx, headHash, limitHashes)
	if err != nil {
		return nil, err
	}
	return reverse(instrs), nil
}

// CompensatedCherryPick replays a single commit onto the current HEAD,
// synthesizing compensation commits on conflict. Exposed for the cherry-pick
// subcommand; runs without the atomic guard.
func (e *Engine) CompensatedCherryPick(ctx context.Context, rev string) error {
	hash, err := e.resolveCommit(ctx, rev)
	if err != nil {
		return err
	}
	return e.compensatedCherryPick(ctx, hash, 0)
}

// CompensatedRebase replays (base, tip] onto the current HEAD. Exposed for
// the rebase subcommand; runs without the atomic guard.
func (e *Engine) CompensatedRebase(ctx context.Context, base, tip string) error {
	baseHash, err := e.resolveCommit(ctx, base)
	if err != nil {
		return err
	}
	tipHash, err := e.resolveCommit(ctx, tip)
	if err != nil {
		return err
	}
	return e.compensatedRebase(ctx, []plumbing.Hash{baseHash}, tipHash)
}

// ResolveMergeConflict reproduces a conflicted merge on top of the current
// HEAD. Exposed for the resolve subcommand; runs without the atomic guard.
func (e *Engine) ResolveMergeConflict(ctx context.Context, merge string) error {
	hash, err := e.resolveCommit(ctx, merge)
	if err != nil {
		return err
	}
	return e.resolveMergeConflict(ctx, hash)
}

// ReduceBases resolves the revisions and eliminates every one that is an
// ancestor of another. Exposed for the reduce subcommand.
func (e *Engine) ReduceBases(ctx context.Context, revs []string) ([]plumbing.Hash, error) {
	hashes := make([]plumbing.Hash, 0, len(revs))
	for _, rev := range revs {
		h, err := e.resolveCommit(ctx, rev)
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}
	return e.reduceBases(hashes)
}

// resolveCommit resolves a revision expression to a commit id
func (e *Engine) resolveCommit(ctx context.Context, rev string) (plumbing.Hash, error) {
	sha, err := e.run.RevParse(ctx, rev)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return git.ParseHash(sha)
}

// resolveRange resolves a head expression and its limit expressions
func (e *Engine) resolveRange(ctx context.Context, head string, limits []string) (plumbing.Hash, []plumbing.Hash, error) {
	headHash, err := e.resolveCommit(ctx, head)
	if err != nil {
		return plumbing.ZeroHash, nil, err
	}

	limitHashes := make([]plumbing.Hash, 0, len(limits))
	for _, limit := range limits {
		h, err := e.resolveCommit(ctx, limit)
		if err != nil {
			return plumbing.ZeroHash, nil, err
		}
		limitHashes = append(limitHashes, h)
	}
	return headHash, limitHashes, nil
}

// short renders an abbreviated commit id for diagnostics
func short(h plumbing.Hash) string {
	return h.String()[:8]
}
