package deps

import (
	"fmt"
	"strings"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
)

// Mode selects how disagreeing version constraints are handled.
type Mode int

const (
	// Strict aborts the run on the first conflict.
	Strict Mode = iota
	// Permissive keeps the version processed last and reports the conflict.
	Permissive
)

// String returns the flag value for the mode.
func (m Mode) String() string {
	if m == Permissive {
		return "permissive"
	}
	return "strict"
}

// ParseMode converts a flag or config value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "permissive":
		return Permissive, nil
	default:
		return Strict, errors.New(errors.ErrCodeInvalidInput, "unknown conflict mode %q (available: strict, permissive)", s)
	}
}

// Conflict describes two non-empty, different version constraints that
// resolved to the same repository.
type Conflict struct {
	Package string `json:"package"` // Package that introduced New
	Old     Record `json:"old"`
	New     Record `json:"new"`
}

// String formats the conflict for operators.
func (c Conflict) String() string {
	return fmt.Sprintf("%s: version %q (from %s) conflicts with %q (from %s)",
		c.Old.Repo, c.Old.Version, strings.Join(c.Old.Packages, ", "), c.New.Version, c.Package)
}

// ConflictError is the cause of a VERSION_CONFLICT error in strict mode.
type ConflictError struct {
	Conflict Conflict
}

// Error implements the error interface.
func (e *ConflictError) Error() string { return e.Conflict.String() }

// Accumulator holds the records collected so far, unique by repository.
// It is not safe for concurrent use; folding depends on processing order.
type Accumulator struct {
	records []Record
	index   map[string]int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{index: make(map[string]int)}
}

// Len returns the number of collected records.
func (a *Accumulator) Len() int { return len(a.records) }

// Records returns a copy of the collected records in first-seen order.
func (a *Accumulator) Records() []Record {
	out := make([]Record, len(a.records))
	for i, r := range a.records {
		out[i] = r.clone()
	}
	return out
}

// Fold merges candidate into the accumulator.
//
// A returned Conflict is non-nil whenever both versions are set and differ.
// In Strict mode the accumulator is left unchanged and a VERSION_CONFLICT
// error is returned as well; in Permissive mode the candidate's version wins.
// An unset version on either side never conflicts: the set one is kept.
func (a *Accumulator) Fold(candidate Record, pkg string, mode Mode) (*Conflict, error) {
	i, ok := a.index[candidate.Repo]
	if !ok {
		rec := Record{Repo: candidate.Repo, Version: candidate.Version}
		for _, p := range candidate.Packages {
			rec.addPackage(p)
		}
		rec.addPackage(pkg)
		a.index[candidate.Repo] = len(a.records)
		a.records = append(a.records, rec)
		return nil, nil
	}

	existing := &a.records[i]
	switch {
	case existing.Version == candidate.Version:
	case existing.Version == "":
		existing.Version = candidate.Version
	case candidate.Version == "":
	default:
		c := &Conflict{Package: pkg, Old: existing.clone(), New: candidate.clone()}
		if mode == Strict {
			return c, errors.Wrap(errors.ErrCodeVersionConflict, &ConflictError{Conflict: *c},
				"conflicting versions for %s", candidate.Repo)
		}
		existing.Version = candidate.Version
		existing.addPackage(pkg)
		return c, nil
	}
	existing.addPackage(pkg)
	return nil, nil
}

// Finalize replaces every unset version with defaultBranch.
func (a *Accumulator) Finalize(defaultBranch string) {
	for i := range a.records {
		if a.records[i].Version == "" {
			a.records[i].Version = defaultBranch
		}
	}
}
