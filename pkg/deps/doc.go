// Package deps resolves declared package dependencies to the upstream
// repositories that own them.
//
// # Overview
//
// Each local catkin package declares build and run dependencies by name, with
// an optional version constraint. A registry snapshot ([registry.Snapshot])
// records which PANDORA repository owns which packages. This package turns
// the flat list of declarations into one [Record] per owning repository.
//
// Only first-level declarations are resolved: there is no traversal of the
// dependencies of the repositories found.
//
// # Resolving
//
//	idx, err := registry.NewIndex(snapshot)
//	if err != nil {
//	    return err // AMBIGUOUS_OWNERSHIP
//	}
//	res, err := deps.Resolve(decls, idx, deps.Options{Mode: deps.Strict})
//
// [ResolveSnapshot] does both steps at once.
//
// # Conflicts
//
// Two declarations resolving to the same repository with different, non-empty
// versions conflict. In [Strict] mode the run stops with a VERSION_CONFLICT
// error whose cause is a [ConflictError]. In [Permissive] mode the version
// processed last is kept and the [Conflict] is reported through
// [Options.OnConflict] and [Result.Conflicts]. A missing version never
// conflicts with a present one; the present one is kept.
//
// Because the outcome depends on processing order, folding is sequential.
// Declarations must be supplied in package discovery order.
//
// # Finalization
//
// After folding, records without a version get [Options.DefaultBranch]
// ("master" unless configured).
package deps
