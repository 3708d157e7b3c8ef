// Package cli implements the linearize command-line surface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"linearize.dev/linearize/internal/engine"
	linerrors "linearize.dev/linearize/internal/errors"
	"linearize.dev/linearize/internal/runtime"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var (
		debug       bool
		recursive   bool
		noRecursive bool
		onConflict  string
		updateHead  bool
		yes         bool
	)

	rootCmd := &cobra.Command{
		Use:   "linearize [flags] [<head>] [^<limit> ...] [-- <subcommand> <args...>]",
		Short: "Rewrite a branching commit history as an equivalent linear one",
		Long: `Linearize rewrites a commit graph as a strictly linear chain of commits
whose final tree is byte-for-byte identical to the input head's tree. Merges
are flattened recursively; merges that cannot be reproduced by the default
three-way strategy are rebuilt with synthesized compensation commits.

On success the base and the linear tip are printed to standard output, or the
current HEAD is moved to the tip with --update-head. Any failure restores the
repository to its pre-run state.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, debug, recursive, noRecursive, onConflict)
			if err != nil {
				return err
			}

			rt, err := runtime.NewContext(cfg)
			if err != nil {
				return err
			}
			defer rt.Splog.Close()

			positional, passthrough := splitAtDash(cmd, args)
			if len(passthrough) > 0 {
				return dispatchSubcommand(cmd.Context(), rt, passthrough)
			}

			head, limits, err := parseRevisions(positional)
			if err != nil {
				return err
			}

			res, err := rt.Engine.Linearize(cmd.Context(), head, limits)
			if err != nil {
				reportFatal(rt, err)
				return err
			}

			if updateHead {
				return applyUpdateHead(cmd, rt, res, yes)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", res.Base(), res.Tip)
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug diagnostics (also: DEBUG=true).")
	rootCmd.Flags().BoolVar(&recursive, "recursive", true, "Recursively linearize right subgraphs (also: RECURSIVE).")
	rootCmd.Flags().BoolVar(&noRecursive, "no-recursive", false, "Only flatten the top-level merge structure.")
	rootCmd.Flags().StringVar(&onConflict, "on-conflict", "", "How to materialize conflict compensation: merge or split (also: ON_CONFLICT).")
	rootCmd.Flags().BoolVar(&updateHead, "update-head", false, "On success, hard-reset HEAD to the linearized tip.")
	rootCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt of --update-head.")

	return rootCmd
}

// resolveConfig merges flags over environment defaults into the immutable
// engine configuration
func resolveConfig(cmd *cobra.Command, debug, recursive, noRecursive bool, onConflict string) (engine.Config, error) {
	cfg := engine.Config{Recursive: true}

	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debug
	}

	if env := os.Getenv("RECURSIVE"); env != "" {
		cfg.Recursive = env != "false"
	}
	if cmd.Flags().Changed("recursive") {
		cfg.Recursive = recursive
	}
	if noRecursive {
		cfg.Recursive = false
	}

	mode := os.Getenv("ON_CONFLICT")
	if onConflict != "" {
		mode = onConflict
	}
	if mode != "" {
		parsed, err := engine.ParseConflictMode(mode)
		if err != nil {
			return engine.Config{}, err
		}
		cfg.OnConflict = parsed
	}

	return cfg, nil
}

// splitAtDash separates revision arguments from a "--" subcommand dispatch
func splitAtDash(cmd *cobra.Command, args []string) (positional, passthrough []string) {
	if at := cmd.ArgsLenAtDash(); at >= 0 {
		return args[:at], args[at:]
	}
	return args, nil
}

// parseRevisions extracts the head and the ^-prefixed ancestor exclusions
func parseRevisions(args []string) (head string, limits []string, err error) {
	head = "HEAD"
	headSet := false
	for _, arg := range args {
		if strings.HasPrefix(arg, "^") {
			limits = append(limits, strings.TrimPrefix(arg, "^"))
			continue
		}
		if headSet {
			return "", nil, fmt.Errorf("more than one head given: %s and %s", head, arg)
		}
		head = arg
		headSet = true
	}
	return head, limits, nil
}

// reportFatal adds recovery guidance for failures that need it; the error
// itself is printed by main
func reportFatal(rt *runtime.Context, err error) {
	if errors.Is(err, linerrors.ErrRestore) {
		rt.Splog.Error("the repository may not be in its original state, inspect git stash list and git reflog")
	}
}
