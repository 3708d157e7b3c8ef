package git

import (
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repository wraps a go-git repository for read-side plumbing over commits
// that existed before a run started. Objects created mid-run are read through
// the CommandRunner instead.
type Repository struct {
	*gogit.Repository
	path string
}

// OpenRepository opens a git repository at the given path
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &Repository{
		Repository: repo,
		path:       absPath,
	}, nil
}

// CurrentBranch returns the current branch name, or the empty string when
// HEAD is detached
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", nil
	}
	return head.Name().Short(), nil
}

// HeadCommit returns the commit id HEAD currently points at
func (r *Repository) HeadCommit() (plumbing.Hash, error) {
	head, err := r.Head()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to get HEAD: %w", err)
	}
	return head.Hash(), nil
}

// Commit returns the commit object for a hash
func (r *Repository) Commit(hash plumbing.Hash) (*object.Commit, error) {
	commit, err := r.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", hash, err)
	}
	return commit, nil
}

// TreeHash returns the tree id of a commit
func (r *Repository) TreeHash(hash plumbing.Hash) (plumbing.Hash, error) {
	commit, err := r.Commit(hash)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return commit.TreeHash, nil
}

// IsAncestor checks if ancestor is reachable from descendant
func (r *Repository) IsAncestor(ancestor, descendant plumbing.Hash) (bool, error) {
	if ancestor == descendant {
		return true, nil
	}

	ancestorCommit, err := r.Commit(ancestor)
	if err != nil {
		return false, err
	}
	descendantCommit, err := r.Commit(descendant)
	if err != nil {
		return false, err
	}

	return ancestorCommit.IsAncestor(descendantCommit)
}
