package engine

import (
	"github.com/go-git/go-git/v5/plumbing"
)

// reduceBases eliminates every commit that is an ancestor of another commit
// in the set: an ancestor adds no content beyond its descendant. The result
// is order-preserving over the surviving elements.
func (e *Engine) reduceBases(bases []plumbing.Hash) ([]plumbing.Hash, error) {
	seen := make(map[plumbing.Hash]struct{}, len(bases))
	unique := make([]plumbing.Hash, 0, len(bases))
	for _, b := range bases {
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		unique = append(unique, b)
	}

	result := make([]plumbing.Hash, 0, len(unique))
	for i, candidate := range unique {
		dominated := false
		for j, other := range unique {
			if i == j {
				continue
			}
			isAncestor, err := e.repo.IsAncestor(candidate, other)
			if err != nil {
				return nil, err
			}
			if isAncestor {
				dominated = true
				break
			}
		}
		if !dominated {
			result = append(result, candidate)
		}
	}
	return result, nil
}
