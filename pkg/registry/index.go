package registry

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
)

// Index is the inverted view of a [Snapshot]: package name to owning
// repository. It is built once and is safe for concurrent reads.
type Index struct {
	owner map[string]string
	snap  Snapshot
}

// NewIndex builds the ownership index for s. It fails with
// AMBIGUOUS_OWNERSHIP when a package is listed under more than one
// repository; the error names every such package and all of its owners.
func NewIndex(s Snapshot) (*Index, error) {
	owners := make(map[string][]string)
	for repo, pkgs := range s {
		for _, pkg := range pkgs {
			if !slices.Contains(owners[pkg], repo) {
				owners[pkg] = append(owners[pkg], repo)
			}
		}
	}

	idx := &Index{owner: make(map[string]string, len(owners)), snap: s}
	var ambiguous []string
	for pkg, repos := range owners {
		if len(repos) > 1 {
			sort.Strings(repos)
			ambiguous = append(ambiguous, fmt.Sprintf("%s (%s)", pkg, strings.Join(repos, ", ")))
			continue
		}
		idx.owner[pkg] = repos[0]
	}
	if len(ambiguous) > 0 {
		sort.Strings(ambiguous)
		return nil, errors.New(errors.ErrCodeAmbiguousOwnership,
			"packages owned by more than one repository: %s", strings.Join(ambiguous, "; "))
	}
	return idx, nil
}

// Lookup returns the repository owning the package name.
func (i *Index) Lookup(name string) (string, bool) {
	repo, ok := i.owner[name]
	return repo, ok
}

// Has reports whether repo is a repository of the underlying snapshot.
func (i *Index) Has(repo string) bool { return i.snap.Has(repo) }

// Repos returns every repository name in sorted order.
func (i *Index) Repos() []string { return i.snap.Repos() }

// Packages returns the packages owned by repo.
func (i *Index) Packages(repo string) ([]string, error) { return i.snap.Packages(repo) }

// Len returns the number of indexed packages.
func (i *Index) Len() int { return len(i.owner) }
