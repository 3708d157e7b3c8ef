package git

import (
	"context"
	"strings"
)

// DiffPatch returns a binary-safe full-index patch transforming a into b.
// The result is empty when the trees are identical.
func (r *CommandRunner) DiffPatch(ctx context.Context, a, b string) (string, error) {
	return r.RunRaw(ctx, "diff", "--full-index", "--binary", a, b)
}

// ApplyIndex applies a patch to the working tree and the index
func (r *CommandRunner) ApplyIndex(ctx context.Context, patch string) error {
	if strings.TrimSpace(patch) == "" {
		return nil
	}
	_, err := r.RunWithInput(ctx, patch, "apply", "--index", "--whitespace=nowarn")
	return err
}
