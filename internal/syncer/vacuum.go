package syncer

import (
	"path/filepath"
	"sort"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/location"
	"github.com/ztripez/mcp-sync/internal/mcp"
	"github.com/ztripez/mcp-sync/internal/paths"
	"github.com/ztripez/mcp-sync/internal/scope"
)

// Candidate is one discovered value for a server name during vacuum.
type Candidate struct {
	Server *mcp.Server

	// Source is the location name the value was found at.
	Source string
}

// Resolver picks between two values for the same name. keepNew true keeps
// the candidate, false keeps the existing value.
type Resolver func(name string, existing, candidate Candidate) (keepNew bool, err error)

// KeepFirst resolves every vacuum conflict in favor of the first value seen.
func KeepFirst(string, Candidate, Candidate) (bool, error) { return false, nil }

// KeepLast resolves every vacuum conflict in favor of the last value seen.
func KeepLast(string, Candidate, Candidate) (bool, error) { return true, nil }

// VacuumConflict records a resolved vacuum conflict.
type VacuumConflict struct {
	Name           string
	ChosenSource   string
	RejectedSource string
}

// VacuumResult is the outcome of a vacuum run.
type VacuumResult struct {
	// Imported maps each imported name to the location it came from.
	Imported map[string]string

	// Skipped lists names left alone because the global tier already
	// defines them.
	Skipped []string

	Conflicts []VacuumConflict

	// Errors maps location paths to their load errors.
	Errors map[string]error
}

// Vacuum pulls existing entries out of the given locations into the global
// tier. Conflicting values for the same name go through the resolver. With
// skipExisting true, names already defined globally are not touched.
//
// The project config file is never vacuumed; its entries belong to the
// project tier.
func (s *Syncer) Vacuum(locations []location.Location, resolve Resolver, skipExisting bool) (*VacuumResult, error) {
	result := &VacuumResult{
		Imported: make(map[string]string),
		Errors:   make(map[string]error),
	}

	existing := mcp.NewServerSet()
	if skipExisting {
		var err error
		if existing, err = s.store.LoadGlobal(); err != nil {
			return nil, errors.Wrap(err, "loading global config")
		}
	}

	discovered := make(map[string]Candidate)
	skipped := make(map[string]bool)
	for _, loc := range locations {
		if filepath.Base(loc.Path) == paths.ProjectConfigName {
			continue
		}

		a, err := s.adapters(loc)
		if err != nil {
			result.Errors[loc.Path] = err
			continue
		}
		set, err := a.Load()
		if err != nil {
			result.Errors[loc.Path] = err
			continue
		}

		for _, name := range set.Names() {
			if _, ok := existing[name]; ok {
				if !skipped[name] {
					skipped[name] = true
					result.Skipped = append(result.Skipped, name)
				}
				continue
			}
			candidate := Candidate{Server: set[name].Clone(), Source: loc.Name}

			prior, seen := discovered[name]
			if !seen {
				discovered[name] = candidate
				continue
			}
			if prior.Server.Equal(candidate.Server) {
				continue
			}

			keepNew, err := resolve(name, prior, candidate)
			if err != nil {
				return nil, errors.Wrapf(err, "resolving conflict for %s", name)
			}
			chosen, rejected := prior, candidate
			if keepNew {
				chosen, rejected = candidate, prior
				discovered[name] = candidate
			}
			result.Conflicts = append(result.Conflicts, VacuumConflict{
				Name:           name,
				ChosenSource:   chosen.Source,
				RejectedSource: rejected.Source,
			})
		}
	}

	names := make([]string, 0, len(discovered))
	for name := range discovered {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		candidate := discovered[name]
		server := candidate.Server
		server.Name = name
		if err := s.store.AddServer(scope.Global, server, true); err != nil {
			return nil, errors.Wrapf(err, "importing %s", name)
		}
		result.Imported[name] = candidate.Source
		s.logger.Info("imported server", "name", name, "source", candidate.Source)
	}

	return result, nil
}
