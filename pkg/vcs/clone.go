package vcs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
)

// Cloner clones repositories into a destination directory.
type Cloner struct {
	runner Runner
}

// NewCloner creates a Cloner using runner.
func NewCloner(runner Runner) *Cloner {
	return &Cloner{runner: runner}
}

// Clone runs "git clone -b branch url" inside dest. A repository directory
// that already exists in dest is left alone and reported as skipped.
func (c *Cloner) Clone(ctx context.Context, url, branch, dest, name string) (skipped bool, err error) {
	info, err := os.Stat(dest)
	if err != nil || !info.IsDir() {
		return false, errors.New(errors.ErrCodeInvalidPath, "invalid destination %s", dest)
	}
	if name != "" {
		if _, err := os.Stat(filepath.Join(dest, name)); err == nil {
			return true, nil
		}
	}
	args := []string{"clone"}
	if branch != "" {
		args = append(args, "-b", branch)
	}
	args = append(args, url)
	if name != "" {
		args = append(args, name)
	}
	return false, c.runner.Run(ctx, dest, "git", args...)
}
