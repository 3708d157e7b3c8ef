package engine

import (
	"context"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"linearize.dev/linearize/internal/git"
)

// compensatedRebase replays every commit in (bases, tip] onto the current
// HEAD in topological order. A straight rebase is attempted first; on failure
// each commit is replayed individually with compensated cherry-pick. Merge
// commits inside the range (base merges of a nested linearization) are
// replayed against their first parent.
func (e *Engine) compensatedRebase(ctx context.Context, bases []plumbing.Hash, tip plumbing.Hash) error {
	entries, err := e.run.RevList(ctx, tip, bases)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	head, err := e.run.RevParse(ctx, "HEAD")
	if err != nil {
		return err
	}

	straight, err := e.canRebaseStraight(ctx, bases, entries)
	if err != nil {
		return err
	}
	if straight {
		if err := e.run.RebaseOnto(ctx, head, bases[0].String(), tip.String()); err == nil {
			return nil
		}
		e.run.RebaseAbort(ctx)
		if err := e.run.CheckoutDetached(ctx, head); err != nil {
			return err
		}
	}

	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		mainline := 0
		if len(entry.Parents) >= 2 {
			mainline = 1
		}
		if err := e.compensatedCherryPick(ctx, entry.Hash, mainline); err != nil {
			return err
		}
	}
	return nil
}

// canRebaseStraight reports whether the straight-rebase shortcut is usable
// for the range. It is not when the range has multiple bases (rebase takes a
// single upstream), when the range contains merge commits (rebase would skip
// them), and not when a recursive run must drop redundant compensation
// commits that a rebase would replay.
func (e *Engine) canRebaseStraight(ctx context.Context, bases []plumbing.Hash, entries []git.RevListEntry) (bool, error) {
	if len(bases) != 1 {
		return false, nil
	}
	for _, entry := range entries {
		if len(entry.Parents) >= 2 {
			return false, nil
		}
	}
	if !e.cfg.Recursive {
		return true, nil
	}
	for _, entry := range entries {
		msg, err := e.run.CommitMessage(ctx, entry.Hash.String())
		if err != nil {
			return false, err
		}
		if strings.HasPrefix(msg, prefixOursTheirs) {
			return false, nil
		}
	}
	return true, nil
}
