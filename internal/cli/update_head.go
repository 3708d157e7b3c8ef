package cli

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"linearize.dev/linearize/internal/engine"
	"linearize.dev/linearize/internal/runtime"
)

// applyUpdateHead moves HEAD to the linearized tip after the atomic guard has
// restored the user's original state. When base == tip there is nothing to
// move and the branch is left alone.
func applyUpdateHead(cmd *cobra.Command, rt *runtime.Context, res engine.Result, yes bool) error {
	if res.Base() == res.Tip {
		rt.Splog.Info("linear tip equals its base, leaving HEAD alone")
		return nil
	}

	run := rt.Engine.Runner()
	branch, err := run.CurrentBranch(cmd.Context())
	if err != nil {
		return err
	}

	target := "detached HEAD"
	if branch != "" {
		target = "branch " + branch
	}

	if !yes && isatty.IsTerminal(os.Stdin.Fd()) {
		confirmed := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Hard-reset %s to %s?", target, res.Tip.String()[:8]),
			Default: true,
		}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", res.Base(), res.Tip)
			return nil
		}
	}

	if err := run.HardReset(cmd.Context(), res.Tip.String()); err != nil {
		return err
	}
	rt.Splog.Info("%s now at %s", target, res.Tip.String()[:8])
	return nil
}
