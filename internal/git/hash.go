package git

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// ParseHash decodes a full hex object id
func ParseHash(s string) (plumbing.Hash, error) {
	if !plumbing.IsHash(s) {
		return plumbing.ZeroHash, fmt.Errorf("invalid object id %q", s)
	}
	return plumbing.NewHash(s), nil
}

// ParseHashes decodes a list of full hex object ids
func ParseHashes(strs ...string) ([]plumbing.Hash, error) {
	result := make([]plumbing.Hash, 0, len(strs))
	for _, s := range strs {
		h, err := ParseHash(s)
		if err != nil {
			return nil, err
		}
		result = append(result, h)
	}
	return result, nil
}

// HashStrings renders hashes as full hex strings
func HashStrings(hashes []plumbing.Hash) []string {
	result := make([]string, 0, len(hashes))
	for _, h := range hashes {
		result = append(result, h.String())
	}
	return result
}
