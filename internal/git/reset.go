package git

import (
	"context"
	"fmt"
)

// HardReset performs a hard reset to a specific revision
func (r *CommandRunner) HardReset(ctx context.Context, rev string) error {
	_, err := r.Run(ctx, "reset", "-q", "--hard", rev)
	if err != nil {
		return fmt.Errorf("failed to hard reset to %s: %w", rev, err)
	}
	return nil
}

// SoftReset performs a soft reset to a specific revision
func (r *CommandRunner) SoftReset(ctx context.Context, rev string) error {
	_, err := r.Run(ctx, "reset", "-q", "--soft", rev)
	if err != nil {
		return fmt.Errorf("failed to soft reset to %s: %w", rev, err)
	}
	return nil
}
