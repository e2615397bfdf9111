package deps

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"
)

// DefaultBranch is the version substituted for dependencies declared without
// a version constraint.
const DefaultBranch = "master"

// Category tells whether a dependency is needed to build or to run a package.
type Category int

const (
	Build Category = iota // build_depend, buildtool_depend, depend
	Run                   // run_depend, exec_depend, depend
)

// String returns the manifest-style name of the category.
func (c Category) String() string {
	switch c {
	case Build:
		return "build"
	case Run:
		return "run"
	default:
		return "unknown"
	}
}

// Declaration is a single dependency declared by a local package.
// An empty Version means no constraint was declared.
type Declaration struct {
	Name     string   // Dependency package name
	Version  string   // Version constraint, "" when absent
	Package  string   // Declaring package
	Category Category // Build or run dependency
}

// Record is the resolved entry for one upstream repository.
type Record struct {
	Repo     string   `json:"repo" yaml:"repo"`
	Version  string   `json:"version" yaml:"version"`
	Packages []string `json:"packages,omitempty" yaml:"packages,omitempty"` // Contributing local packages, diagnostic only
}

func (r Record) clone() Record {
	r.Packages = slices.Clone(r.Packages)
	return r
}

func (r *Record) addPackage(pkg string) {
	if pkg != "" && !slices.Contains(r.Packages, pkg) {
		r.Packages = append(r.Packages, pkg)
	}
}

// Result is the outcome of a resolution run. Records are unique by Repo and
// keep the order in which each repository was first seen.
type Result struct {
	Records   []Record   `json:"records"`
	Conflicts []Conflict `json:"conflicts,omitempty"` // Overridden versions in permissive mode
	State     State      `json:"-"`
}

// Len returns the number of resolved repositories.
func (r *Result) Len() int { return len(r.Records) }

// Repos returns the repository names in result order.
func (r *Result) Repos() []string {
	repos := make([]string, len(r.Records))
	for i, rec := range r.Records {
		repos[i] = rec.Repo
	}
	return repos
}

// Get returns the record for repo, if present.
func (r *Result) Get(repo string) (Record, bool) {
	for _, rec := range r.Records {
		if rec.Repo == repo {
			return rec, true
		}
	}
	return Record{}, false
}

// Options configures a resolution run.
type Options struct {
	Mode          Mode           // Conflict handling (default: Strict)
	DefaultBranch string         // Sentinel for unversioned records (default: "master")
	OnConflict    func(Conflict) // Called for every detected conflict (optional)
	Logger        *log.Logger    // Debug/progress logging (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.DefaultBranch == "" {
		opts.DefaultBranch = DefaultBranch
	}
	if opts.OnConflict == nil {
		opts.OnConflict = func(Conflict) {}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return opts
}
