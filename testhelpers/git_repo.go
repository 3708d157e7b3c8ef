// Package testhelpers provides real-git repository fixtures for tests.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitRepo represents a Git repository for testing purposes
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new Git repository in the specified directory
func NewGitRepo(dir string) (*GitRepo, error) {
	repo := &GitRepo{Dir: dir}

	// Use git -c flags to avoid reading global config and set local configs
	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "init", "-q", dir, "-b", "main")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w", err)
	}

	// Configure Git user (required for commits)
	if err := repo.Git("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.Git("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}

	return repo, nil
}

// Git executes a git command in the repository directory
func (r *GitRepo) Git(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if os.Getenv("DEBUG") == "" {
		cmd.Stdout = nil
		cmd.Stderr = nil
	}
	return cmd.Run()
}

// GitOutput executes a git command and returns its trimmed output
func (r *GitRepo) GitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(output)), nil
}

// SetLine writes a single-value file, the alphabet used by graph fixtures
func (r *GitRepo) SetLine(name, value string) error {
	return os.WriteFile(filepath.Join(r.Dir, name), []byte(value+"\n"), 0600)
}

// ReadLine reads a single-value file back
func (r *GitRepo) ReadLine(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.Dir, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// CommitAll stages everything and commits it
func (r *GitRepo) CommitAll(message string) error {
	if err := r.Git("add", "-A"); err != nil {
		return err
	}
	return r.Git("commit", "-q", "-m", message)
}

// SetLineAndCommit writes a value file and commits it
func (r *GitRepo) SetLineAndCommit(name, value, message string) error {
	if err := r.SetLine(name, value); err != nil {
		return err
	}
	return r.CommitAll(message)
}

// CreateAndCheckoutBranch creates and checks out a new branch
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.Git("checkout", "-q", "-b", name)
}

// CheckoutBranch checks out a branch
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.Git("checkout", "-q", name)
}

// CheckoutDetached checks out a revision in detached HEAD state
func (r *GitRepo) CheckoutDetached(rev string) error {
	return r.Git("checkout", "-q", "--detach", rev)
}

// Merge merges a revision into HEAD with optional -X strategy option
func (r *GitRepo) Merge(rev, strategyOption string) error {
	args := []string{"merge", "-q", "--no-edit", "--no-ff"}
	if strategyOption != "" {
		args = append(args, "-X", strategyOption)
	}
	return r.Git(append(args, rev)...)
}

// MergeStrategyOurs merges with the ours merge strategy, discarding the other
// side entirely
func (r *GitRepo) MergeStrategyOurs(rev string) error {
	return r.Git("merge", "-q", "--no-edit", "--no-ff", "-s", "ours", rev)
}

// GetRevision returns the commit id of a revision
func (r *GitRepo) GetRevision(rev string) (string, error) {
	return r.GitOutput("rev-parse", rev)
}

// TreeHash returns the tree id of a revision
func (r *GitRepo) TreeHash(rev string) (string, error) {
	return r.GitOutput("rev-parse", rev+"^{tree}")
}

// CurrentBranchName returns the name of the current branch, empty if detached
func (r *GitRepo) CurrentBranchName() (string, error) {
	return r.GitOutput("branch", "--show-current")
}

// StatusPorcelain returns the porcelain status output
func (r *GitRepo) StatusPorcelain() (string, error) {
	return r.GitOutput("status", "--porcelain")
}

// CountCommits returns the number of commits in (base, tip]
func (r *GitRepo) CountCommits(base, tip string) (int, error) {
	output, err := r.GitOutput("rev-list", "--count", tip, "^"+base)
	if err != nil {
		return 0, err
	}
	var count int
	if _, err := fmt.Sscanf(output, "%d", &count); err != nil {
		return 0, fmt.Errorf("failed to parse commit count: %w", err)
	}
	return count, nil
}

// ListCommitMessages returns the subject lines of (base, tip], newest first
func (r *GitRepo) ListCommitMessages(base, tip string) ([]string, error) {
	output, err := r.GitOutput("log", "--format=%s", tip, "^"+base)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

// IsLinear reports whether every commit in (base, tip] has at most one parent
func (r *GitRepo) IsLinear(base, tip string) (bool, error) {
	output, err := r.GitOutput("rev-list", "--parents", tip, "^"+base)
	if err != nil {
		return false, err
	}
	if output == "" {
		return true, nil
	}
	for _, line := range strings.Split(output, "\n") {
		if len(strings.Fields(line)) > 2 {
			return false, nil
		}
	}
	return true, nil
}
