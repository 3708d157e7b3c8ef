// Package errors provides sentinel errors and custom error types for the linearize engine.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrUnsupportedTopology indicates an octopus merge (more than two parents)
	ErrUnsupportedTopology = errors.New("unsupported topology")

	// ErrCherryPick indicates that both the standard and the compensating
	// cherry-pick strategies failed for a commit
	ErrCherryPick = errors.New("cherry-pick failed")

	// ErrMergeReplay indicates that the ours-strategy merge replay itself failed
	ErrMergeReplay = errors.New("merge replay failed")

	// ErrApply indicates that a synthesized compensation patch did not apply cleanly
	ErrApply = errors.New("patch apply failed")

	// ErrPopInvariant indicates a tree mismatch after processing a merge subgraph
	ErrPopInvariant = errors.New("pop invariant violated")

	// ErrRestore indicates that the atomic guard could not restore the pre-run state
	ErrRestore = errors.New("restore failed")

	// ErrRootRange indicates a revision range whose newest commit is a root commit
	ErrRootRange = errors.New("range tip is a root commit")

	// ErrNothingToLinearize indicates an empty revision range
	ErrNothingToLinearize = errors.New("nothing to linearize")
)

// UnsupportedTopologyError reports a commit with an unsupported parent count
type UnsupportedTopologyError struct {
	Commit  string
	Parents int
}

func (e *UnsupportedTopologyError) Error() string {
	return fmt.Sprintf("commit %s has %d parents, octopus merges are not supported", e.Commit, e.Parents)
}

// Is returns true if the target error is ErrUnsupportedTopology
func (e *UnsupportedTopologyError) Is(target error) bool {
	return target == ErrUnsupportedTopology
}

// NewUnsupportedTopologyError creates a new UnsupportedTopologyError
func NewUnsupportedTopologyError(commit string, parents int) *UnsupportedTopologyError {
	return &UnsupportedTopologyError{Commit: commit, Parents: parents}
}

// CherryPickError reports a commit that could not be replayed by any strategy
type CherryPickError struct {
	Commit string
	Err    error
}

func (e *CherryPickError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cherry-pick of %s failed: %v", e.Commit, e.Err)
	}
	return fmt.Sprintf("cherry-pick of %s failed", e.Commit)
}

func (e *CherryPickError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrCherryPick
func (e *CherryPickError) Is(target error) bool {
	return target == ErrCherryPick
}

// NewCherryPickError creates a new CherryPickError
func NewCherryPickError(commit string, err error) *CherryPickError {
	return &CherryPickError{Commit: commit, Err: err}
}

// MergeReplayError reports a merge whose ours-strategy replay failed
type MergeReplayError struct {
	Merge string
	Err   error
}

func (e *MergeReplayError) Error() string {
	return fmt.Sprintf("ours-strategy replay of merge %s failed: %v", e.Merge, e.Err)
}

func (e *MergeReplayError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrMergeReplay
func (e *MergeReplayError) Is(target error) bool {
	return target == ErrMergeReplay
}

// NewMergeReplayError creates a new MergeReplayError
func NewMergeReplayError(merge string, err error) *MergeReplayError {
	return &MergeReplayError{Merge: merge, Err: err}
}

// ApplyError reports a compensation patch that did not apply
type ApplyError struct {
	Context string
	Err     error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("compensation patch failed to apply (%s): %v", e.Context, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrApply
func (e *ApplyError) Is(target error) bool {
	return target == ErrApply
}

// NewApplyError creates a new ApplyError
func NewApplyError(context string, err error) *ApplyError {
	return &ApplyError{Context: context, Err: err}
}

// PopInvariantError reports a tree mismatch at a merge pop point
type PopInvariantError struct {
	Merge        string
	ExpectedTree string
	ActualTree   string
}

func (e *PopInvariantError) Error() string {
	return fmt.Sprintf("tree mismatch after merge %s: expected %s, got %s", e.Merge, e.ExpectedTree, e.ActualTree)
}

// Is returns true if the target error is ErrPopInvariant
func (e *PopInvariantError) Is(target error) bool {
	return target == ErrPopInvariant
}

// NewPopInvariantError creates a new PopInvariantError
func NewPopInvariantError(merge, expectedTree, actualTree string) *PopInvariantError {
	return &PopInvariantError{Merge: merge, ExpectedTree: expectedTree, ActualTree: actualTree}
}

// RestoreError reports a failed restore step in the atomic guard.
// The repository may be in a non-canonical state when this is returned.
type RestoreError struct {
	Step string
	Err  error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("failed to restore repository state (%s): %v", e.Step, e.Err)
}

func (e *RestoreError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrRestore
func (e *RestoreError) Is(target error) bool {
	return target == ErrRestore
}

// NewRestoreError creates a new RestoreError
func NewRestoreError(step string, err error) *RestoreError {
	return &RestoreError{Step: step, Err: err}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
