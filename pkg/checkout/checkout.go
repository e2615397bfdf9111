// Package checkout turns a resolution result into checkout instructions:
// rosinstall entries for wstool, or plain git clone URLs.
//
// Entries are written one per repository, sorted by repository name so the
// output is stable no matter which package pulled a repository in first.
package checkout

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/deps"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
)

// Organization is the GitHub organization hosting every PANDORA repository.
const Organization = "pandora-auth-ros-pkg"

// Format selects the kind of instruction written per repository.
type Format int

const (
	Rosinstall Format = iota // wstool entries
	Git                      // clone URLs
)

// Transport selects the clone URL scheme.
type Transport int

const (
	SSH Transport = iota
	HTTPS
)

// Style is a Format and Transport pair.
type Style struct {
	Format    Format
	Transport Transport
}

// ParseFormat parses "rosinstall" or "git".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "rosinstall":
		return Rosinstall, nil
	case "git":
		return Git, nil
	default:
		return Rosinstall, errors.New(errors.ErrCodeInvalidInput, "unknown checkout format %q (available: rosinstall, git)", s)
	}
}

// URL returns the clone URL of repo.
func URL(repo string, t Transport) string {
	if t == HTTPS {
		return "https://github.com/" + Organization + "/" + repo + ".git"
	}
	return "git@github.com:" + Organization + "/" + repo + ".git"
}

// rosinstallEntry is one wstool source; its YAML form is
// "- git: {local-name: R, uri: URL, version: V}".
type rosinstallEntry struct {
	Git rosinstallSource `yaml:"git,flow"`
}

type rosinstallSource struct {
	LocalName string `yaml:"local-name"`
	URI       string `yaml:"uri"`
	Version   string `yaml:"version"`
}

// Render writes one instruction per record of result. Rosinstall output is a
// YAML sequence, with every value quoted as YAML requires, so versions such
// as "1.0" stay strings for wstool.
func Render(w io.Writer, result *deps.Result, style Style) error {
	recs := Sorted(result)
	if style.Format == Git {
		for _, rec := range recs {
			if _, err := fmt.Fprintln(w, URL(rec.Repo, style.Transport)); err != nil {
				return err
			}
		}
		return nil
	}
	if len(recs) == 0 {
		return nil
	}

	entries := make([]rosinstallEntry, len(recs))
	for i, rec := range recs {
		entries[i].Git = rosinstallSource{LocalName: rec.Repo, URI: URL(rec.Repo, style.Transport), Version: rec.Version}
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(entries); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode rosinstall")
	}
	return enc.Close()
}

// Sorted returns the records of result ordered by repository name.
func Sorted(result *deps.Result) []deps.Record {
	if result == nil {
		return nil
	}
	recs := slices.Clone(result.Records)
	slices.SortFunc(recs, func(a, b deps.Record) int { return strings.Compare(a.Repo, b.Repo) })
	return recs
}
