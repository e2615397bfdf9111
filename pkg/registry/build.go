package registry

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
)

// Build creates a snapshot from a tree of checked-out repositories: every
// directory containing a .git entry is a repository, and every directory
// below it holding a package.xml is one of its packages, named after the
// directory. Nested repositories own their own packages.
func Build(root string) (Snapshot, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", root)
	}

	snap := make(Snapshot)
	var repos []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		if exists(filepath.Join(path, ".git")) {
			repos = append(repos, path)
			snap[filepath.Base(path)] = []string{}
		}
		if exists(filepath.Join(path, "package.xml")) {
			if repo := owningRepo(repos, path); repo != "" {
				name := filepath.Base(repo)
				snap[name] = append(snap[name], filepath.Base(path))
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "scan %s", root)
	}
	for _, pkgs := range snap {
		sort.Strings(pkgs)
	}
	return snap, nil
}

// owningRepo returns the deepest repository directory containing path.
func owningRepo(repos []string, path string) string {
	best := ""
	for _, repo := range repos {
		if path != repo && !strings.HasPrefix(path, repo+string(filepath.Separator)) {
			continue
		}
		if len(repo) > len(best) {
			best = repo
		}
	}
	return best
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
