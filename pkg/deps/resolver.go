package deps

import (
	"time"

	"github.com/google/uuid"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/observability"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/registry"
)

// State is the lifecycle position of a resolution run.
type State int

const (
	Collecting State = iota
	Finalizing
	Done
	Aborted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Finalizing:
		return "finalizing"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Ownership answers which repository owns a package.
// [registry.Index] is the production implementation.
type Ownership interface {
	Lookup(name string) (repo string, ok bool)
}

// Resolver maps dependency declarations to the repositories that own them.
type Resolver struct {
	owners Ownership
	opts   Options
	state  State
}

// NewResolver creates a Resolver over the given ownership lookup.
func NewResolver(owners Ownership, opts Options) *Resolver {
	return &Resolver{owners: owners, opts: opts.WithDefaults()}
}

// State returns the state reached by the last call to Resolve.
func (r *Resolver) State() State { return r.state }

// Resolve folds decls, in order, into a Result.
//
// Declarations whose name no repository owns are skipped. In Strict mode the
// first version conflict aborts the run and no Result is returned.
func (r *Resolver) Resolve(decls []Declaration) (*Result, error) {
	runID := uuid.NewString()
	logger := r.opts.Logger.With("run", runID)
	logger.Debug("resolving", "declarations", len(decls), "mode", r.opts.Mode)

	hooks := observability.Resolve()
	hooks.OnResolveStart(runID, len(decls), r.opts.Mode.String())
	start := time.Now()

	r.state = Collecting
	acc := NewAccumulator()
	var conflicts []Conflict

	for _, d := range decls {
		repo, ok := r.owners.Lookup(d.Name)
		if !ok {
			logger.Debug("unmanaged dependency", "name", d.Name, "package", d.Package)
			continue
		}
		candidate := Record{Repo: repo, Version: d.Version, Packages: []string{d.Package}}
		c, err := acc.Fold(candidate, d.Package, r.opts.Mode)
		if c != nil {
			r.opts.OnConflict(*c)
		}
		if err != nil {
			r.state = Aborted
			logger.Debug("resolution aborted", "repo", repo, "package", d.Package)
			hooks.OnResolveComplete(runID, acc.Len(), len(conflicts)+1, time.Since(start), err)
			return nil, err
		}
		if c != nil {
			logger.Warn("version overridden", "repo", repo, "old", c.Old.Version, "new", c.New.Version, "package", d.Package)
			conflicts = append(conflicts, *c)
		}
	}

	r.state = Finalizing
	acc.Finalize(r.opts.DefaultBranch)

	r.state = Done
	logger.Debug("resolved", "repos", acc.Len(), "conflicts", len(conflicts))
	hooks.OnResolveComplete(runID, acc.Len(), len(conflicts), time.Since(start), nil)
	return &Result{Records: acc.Records(), Conflicts: conflicts, State: Done}, nil
}

// Resolve is a convenience wrapper around [NewResolver] and [Resolver.Resolve].
func Resolve(decls []Declaration, owners Ownership, opts Options) (*Result, error) {
	return NewResolver(owners, opts).Resolve(decls)
}

// ResolveSnapshot builds the ownership index for snap and resolves decls
// against it. It fails with AMBIGUOUS_OWNERSHIP before any folding if the
// snapshot maps a package to more than one repository.
func ResolveSnapshot(decls []Declaration, snap registry.Snapshot, opts Options) (*Result, error) {
	idx, err := registry.NewIndex(snap)
	if err != nil {
		return nil, err
	}
	return Resolve(decls, idx, opts)
}
