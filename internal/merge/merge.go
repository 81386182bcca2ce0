// Package merge computes the precedence-resolved diff between the source of
// truth and a target location's current server set.
//
// The rules are fixed and deterministic: the source always outranks the
// target, and a target-only entry is removed only when a previous sync is
// known to have written it (the managed-names marker). Overrides are
// recorded as conflicts purely for audit; there is nothing to resolve
// interactively at this layer.
package merge

import (
	"sort"

	"github.com/ztripez/mcp-sync/internal/mcp"
)

// Change records an entry update: the target's old value and the source
// value that replaces it.
type Change struct {
	Old *mcp.Server
	New *mcp.Server
}

// Conflict records a name whose target value was overridden by the source.
// Resolution is always "source"; the overridden value is kept for display.
type Conflict struct {
	Name       string
	Target     *mcp.Server
	Source     *mcp.Server
	Resolution string
}

// ResolutionSource is the only resolution the engine ever takes: the
// source-of-truth value wins.
const ResolutionSource = "source"

// Result is the outcome of merging one target location against the source.
type Result struct {
	// Added holds entries present in the source but not the target.
	Added mcp.ServerSet

	// Updated maps names present in both, with differing values.
	Updated map[string]Change

	// Removed holds managed entries the source no longer contains.
	Removed mcp.ServerSet

	// Unchanged lists names equal on both sides, sorted.
	Unchanged []string

	// Conflicts records every override for audit, sorted by name.
	Conflicts []Conflict

	desired mcp.ServerSet
}

// Compute classifies every name across the target set and the source set.
//
// managed is the set of names a previous sync wrote to this location; a nil
// slice means no record exists, in which case all target-only names are
// preserved. An empty non-nil slice means a record exists and nothing is
// managed.
func Compute(source, target mcp.ServerSet, managed []string) *Result {
	res := &Result{
		Added:   mcp.NewServerSet(),
		Updated: make(map[string]Change),
		Removed: mcp.NewServerSet(),
		desired: mcp.NewServerSet(),
	}

	managedSet := make(map[string]struct{}, len(managed))
	for _, name := range managed {
		managedSet[name] = struct{}{}
	}
	hasRecord := managed != nil

	// Source names first: added, updated, or unchanged. The source value
	// always lands in the desired set.
	for _, name := range source.Names() {
		want := source[name].Clone()
		want.Name = name
		res.desired[name] = want

		have, ok := target[name]
		switch {
		case !ok:
			res.Added[name] = want
		case have.Equal(want):
			res.Unchanged = append(res.Unchanged, name)
		default:
			res.Updated[name] = Change{Old: have.Clone(), New: want}
			res.Conflicts = append(res.Conflicts, Conflict{
				Name:       name,
				Target:     have.Clone(),
				Source:     want,
				Resolution: ResolutionSource,
			})
		}
	}

	// Target-only names: removed when previously managed, preserved
	// otherwise. Without a managed-names record nothing is removed.
	for _, name := range target.Names() {
		if _, ok := source[name]; ok {
			continue
		}
		if hasRecord {
			if _, wasManaged := managedSet[name]; wasManaged {
				res.Removed[name] = target[name].Clone()
				continue
			}
		}
		keep := target[name].Clone()
		keep.Name = name
		res.desired[name] = keep
	}

	sort.Strings(res.Unchanged)
	sort.Slice(res.Conflicts, func(i, j int) bool {
		return res.Conflicts[i].Name < res.Conflicts[j].Name
	})

	return res
}

// Desired returns the target's server set after apply: the source set plus
// the target's unmanaged entries. Every name maps to exactly one entry.
func (r *Result) Desired() mcp.ServerSet {
	return r.desired
}

// Empty reports whether applying the result would change nothing.
func (r *Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Updated) == 0 && len(r.Removed) == 0
}

// AddedCount returns the number of additions. Safe on a nil result.
func (r *Result) AddedCount() int {
	if r == nil {
		return 0
	}
	return len(r.Added)
}

// UpdatedCount returns the number of updates. Safe on a nil result.
func (r *Result) UpdatedCount() int {
	if r == nil {
		return 0
	}
	return len(r.Updated)
}

// RemovedCount returns the number of removals. Safe on a nil result.
func (r *Result) RemovedCount() int {
	if r == nil {
		return 0
	}
	return len(r.Removed)
}
