package registry

import (
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
)

// Snapshot maps a repository name to the packages it owns.
// It is decoded once per run and never modified afterwards; [Snapshot.Replace]
// returns a new value.
type Snapshot map[string][]string

// Decode parses a repos.yml payload. Anything other than a non-empty mapping
// of repository names to package lists fails with REGISTRY_UNAVAILABLE.
func Decode(data []byte) (Snapshot, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRegistryUnavailable, err, "registry is not a repository mapping")
	}
	if raw == nil {
		return nil, errors.New(errors.ErrCodeRegistryUnavailable, "registry is empty")
	}
	snap := make(Snapshot, len(raw))
	for repo, pkgs := range raw {
		if strings.TrimSpace(repo) == "" {
			return nil, errors.New(errors.ErrCodeRegistryUnavailable, "registry contains an empty repository name")
		}
		snap[repo] = slices.Clone(pkgs)
	}
	return snap, nil
}

// Encode serializes the snapshot as YAML with repositories in sorted order.
func Encode(s Snapshot) ([]byte, error) {
	out := make(map[string][]string, len(s))
	for repo, pkgs := range s {
		if pkgs == nil {
			pkgs = []string{}
		}
		out[repo] = pkgs
	}
	return yaml.Marshal(out)
}

// LoadFile reads and decodes a snapshot stored on disk.
func LoadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "registry file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeRegistryUnavailable, err, "read registry file %s", path)
	}
	return Decode(data)
}

// Repos returns the repository names in sorted order.
func (s Snapshot) Repos() []string {
	repos := make([]string, 0, len(s))
	for repo := range s {
		repos = append(repos, repo)
	}
	sort.Strings(repos)
	return repos
}

// Has reports whether repo is a key of the snapshot.
func (s Snapshot) Has(repo string) bool {
	_, ok := s[repo]
	return ok
}

// Packages returns the packages owned by repo. An unknown repository fails
// with UNKNOWN_REPO listing the valid names.
func (s Snapshot) Packages(repo string) ([]string, error) {
	pkgs, ok := s[repo]
	if !ok {
		return nil, s.unknown(repo)
	}
	return slices.Clone(pkgs), nil
}

// SameAs reports whether repo owns exactly pkgs, ignoring order and
// duplicates. An unknown repository fails with UNKNOWN_REPO.
func (s Snapshot) SameAs(repo string, pkgs []string) (bool, error) {
	current, err := s.Packages(repo)
	if err != nil {
		return false, err
	}
	return slices.Equal(normalize(current), normalize(pkgs)), nil
}

// Replace returns a copy of the snapshot with repo's packages set to pkgs.
// Only existing repositories can be replaced.
func (s Snapshot) Replace(repo string, pkgs []string) (Snapshot, error) {
	if !s.Has(repo) {
		return nil, s.unknown(repo)
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = slices.Clone(v)
	}
	out[repo] = slices.Clone(pkgs)
	return out, nil
}

func (s Snapshot) unknown(repo string) error {
	return errors.New(errors.ErrCodeUnknownRepo, "%s not found in registry (known repositories: %s)",
		repo, strings.Join(s.Repos(), ", "))
}

func normalize(pkgs []string) []string {
	out := slices.Clone(pkgs)
	slices.Sort(out)
	return slices.Compact(out)
}
