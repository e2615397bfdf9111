package vcs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/registry"
)

// CommitMessage is used for every registry update.
const CommitMessage = "Update repos.yml"

// PublishOptions describes one registry update.
type PublishOptions struct {
	ScriptsDir string            // Checkout of the CI scripts repository holding the registry
	EnvName    string            // Variable ScriptsDir was read from, for error messages
	File       string            // Registry file; relative paths are joined to ScriptsDir
	Snapshot   registry.Snapshot // Content to write
	Remote     string            // Default: origin
	Branch     string            // Default: master
}

// Publisher writes a snapshot and pushes it upstream.
type Publisher struct {
	runner Runner
}

// NewPublisher creates a Publisher using runner.
func NewPublisher(runner Runner) *Publisher {
	return &Publisher{runner: runner}
}

// Publish validates the scripts checkout, writes the snapshot and runs
// git add -u, git commit and git push in ScriptsDir. Nothing is written when
// the scripts directory is unusable. It returns the path written.
func (p *Publisher) Publish(ctx context.Context, opts PublishOptions) (string, error) {
	env := opts.EnvName
	if env == "" {
		env = "scripts directory"
	} else {
		env = "$" + env
	}
	if opts.ScriptsDir == "" {
		return "", errors.New(errors.ErrCodeInvalidPersistenceEnv, "%s is not set", env)
	}
	info, err := os.Stat(opts.ScriptsDir)
	if err != nil || !info.IsDir() {
		return "", errors.New(errors.ErrCodeInvalidPersistenceEnv, "%s points to %s, which is not a directory", env, opts.ScriptsDir)
	}
	if opts.File == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "no registry file given")
	}

	path := opts.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(opts.ScriptsDir, path)
	}
	data, err := registry.Encode(opts.Snapshot)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}

	remote, branch := opts.Remote, opts.Branch
	if remote == "" {
		remote = "origin"
	}
	if branch == "" {
		branch = "master"
	}
	steps := [][]string{
		{"add", "-u"},
		{"commit", "-m", CommitMessage},
		{"push", remote, branch},
	}
	for _, args := range steps {
		if err := p.runner.Run(ctx, opts.ScriptsDir, "git", args...); err != nil {
			return path, err
		}
	}
	return path, nil
}
