package cli

import (
	"context"
	"fmt"
	"os"

	"linearize.dev/linearize/internal/runtime"
)

// dispatchSubcommand routes a "-- <subcommand> <args...>" invocation to a
// named internal entry point. These exist so subsystems can be driven and
// tested directly against a prepared repository.
func dispatchSubcommand(ctx context.Context, rt *runtime.Context, args []string) error {
	name, rest := args[0], args[1:]

	switch name {
	case "plan":
		head, limits, err := parseRevisions(rest)
		if err != nil {
			return err
		}
		instrs, err := rt.Engine.Plan(ctx, head, limits)
		if err != nil {
			return err
		}
		for _, in := range instrs {
			fmt.Fprintln(os.Stdout, in)
		}
		return nil

	case "reduce":
		if len(rest) == 0 {
			return fmt.Errorf("reduce needs at least one revision")
		}
		bases, err := rt.Engine.ReduceBases(ctx, rest)
		if err != nil {
			return err
		}
		for _, b := range bases {
			fmt.Fprintln(os.Stdout, b)
		}
		return nil

	case "cherry-pick":
		if len(rest) != 1 {
			return fmt.Errorf("cherry-pick needs exactly one commit")
		}
		return rt.Engine.CompensatedCherryPick(ctx, rest[0])

	case "rebase":
		if len(rest) != 2 {
			return fmt.Errorf("rebase needs a base and a tip")
		}
		return rt.Engine.CompensatedRebase(ctx, rest[0], rest[1])

	case "resolve":
		if len(rest) != 1 {
			return fmt.Errorf("resolve needs exactly one merge commit")
		}
		return rt.Engine.ResolveMergeConflict(ctx, rest[0])

	default:
		return fmt.Errorf("unknown subcommand %q", name)
	}
}
