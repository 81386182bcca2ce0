// Package scope manages the two source-of-truth tiers: the user-wide
// global config and the per-project override config. The effective source
// a sync works from is the project tier overlaid on the global tier.
package scope

import (
	"os"

	"github.com/ztripez/mcp-sync/internal/adapter"
	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/mcp"
	"github.com/ztripez/mcp-sync/internal/paths"
)

// Scope names accepted by AddServer and RemoveServer.
const (
	Global  = "global"
	Project = "project"
)

// ErrUnknownScope indicates a scope name other than global or project.
var ErrUnknownScope = errors.New("unknown scope")

// ErrServerExists indicates an add would overwrite an existing entry.
var ErrServerExists = errors.New("server already defined")

// ErrServerNotFound indicates a remove named an entry the scope lacks.
var ErrServerNotFound = errors.New("server not defined")

// Store reads and writes the global and project config tiers.
type Store struct {
	globalPath  string
	projectPath string
}

// NewStore creates a store over explicit file paths. Used in tests.
func NewStore(globalPath, projectPath string) *Store {
	return &Store{globalPath: globalPath, projectPath: projectPath}
}

// DefaultStore creates a store over the standard config locations: the XDG
// global config and the project config under projectRoot (empty means the
// current directory).
func DefaultStore(projectRoot string) *Store {
	return NewStore(paths.GlobalConfigPath(), paths.ProjectConfigPath(projectRoot))
}

// GlobalPath returns the global config file path.
func (s *Store) GlobalPath() string { return s.globalPath }

// ProjectPath returns the project config file path.
func (s *Store) ProjectPath() string { return s.projectPath }

// HasProject reports whether a project config file exists.
func (s *Store) HasProject() bool {
	_, err := os.Stat(s.projectPath)
	return err == nil
}

// LoadGlobal returns the global tier. A missing file yields an empty set.
func (s *Store) LoadGlobal() (mcp.ServerSet, error) {
	return adapter.NewFileAdapter(s.globalPath, mcp.DefaultServersKey).Load()
}

// LoadProject returns the project tier. A missing file yields an empty set.
func (s *Store) LoadProject() (mcp.ServerSet, error) {
	return adapter.NewFileAdapter(s.projectPath, mcp.DefaultServersKey).Load()
}

// Source builds the effective source of truth. By default the project tier
// is overlaid on the global tier, a project entry replacing a same-named
// global entry wholesale. globalOnly and projectOnly restrict the source to
// a single tier.
//
// Any failure here is fatal to a sync: without a trustworthy source there
// is nothing safe to reconcile against.
func (s *Store) Source(globalOnly, projectOnly bool) (mcp.ServerSet, error) {
	var global, project mcp.ServerSet
	var err error

	if !projectOnly {
		if global, err = s.LoadGlobal(); err != nil {
			return nil, errors.Wrap(err, "loading global config")
		}
	}
	if !globalOnly {
		if project, err = s.LoadProject(); err != nil {
			return nil, errors.Wrap(err, "loading project config")
		}
	}

	return mcp.Overlay(global, project), nil
}

// AddServer defines an entry in the named scope. With force false an
// existing same-named entry is an error; with force true it is replaced.
func (s *Store) AddServer(scope string, server *mcp.Server, force bool) error {
	a, err := s.adapterFor(scope)
	if err != nil {
		return err
	}

	set, err := a.Load()
	if err != nil {
		return err
	}
	if _, exists := set[server.Name]; exists && !force {
		return errors.Wrapf(ErrServerExists, "%s in %s scope", server.Name, scope)
	}

	set[server.Name] = server.Clone()
	set[server.Name].Name = server.Name
	return a.Write(set)
}

// RemoveServer drops an entry from the named scope.
func (s *Store) RemoveServer(scope, name string) error {
	a, err := s.adapterFor(scope)
	if err != nil {
		return err
	}

	set, err := a.Load()
	if err != nil {
		return err
	}
	if _, exists := set[name]; !exists {
		return errors.Wrapf(ErrServerNotFound, "%s in %s scope", name, scope)
	}

	delete(set, name)
	return a.Write(set)
}

// adapterFor maps a scope name to its backing file.
func (s *Store) adapterFor(scope string) (*adapter.FileAdapter, error) {
	switch scope {
	case Global:
		return adapter.NewFileAdapter(s.globalPath, mcp.DefaultServersKey), nil
	case Project:
		return adapter.NewFileAdapter(s.projectPath, mcp.DefaultServersKey), nil
	default:
		return nil, errors.Wrapf(ErrUnknownScope, "%q", scope)
	}
}
