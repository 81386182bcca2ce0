package commands

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/ztripez/mcp-sync/internal/adapter"
	"github.com/ztripez/mcp-sync/internal/backup"
	"github.com/ztripez/mcp-sync/internal/client"
	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/location"
	"github.com/ztripez/mcp-sync/internal/merge"
	"github.com/ztripez/mcp-sync/internal/mcp"
	"github.com/ztripez/mcp-sync/internal/paths"
	"github.com/ztripez/mcp-sync/internal/scope"
	"github.com/ztripez/mcp-sync/internal/syncer"
)

// Color helpers for command output.
var (
	addColor    = color.New(color.FgGreen)
	removeColor = color.New(color.FgRed)
	updateColor = color.New(color.FgYellow)
	dimColor    = color.New(color.Faint)
	boldColor   = color.New(color.Bold)
)

// app bundles the wired-up components every command needs.
type app struct {
	store    *scope.Store
	state    *location.State
	registry *location.Registry
	catalog  client.Catalog
	syncer   *syncer.Syncer
	logger   *slog.Logger
}

// buildApp loads the persistent stores and constructs the syncer.
func buildApp() (*app, error) {
	catalog, err := client.LoadCatalog(paths.UserClientsPath())
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	registry, err := location.LoadRegistry(paths.LocationsPath())
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	state, err := location.LoadState(paths.StatePath())
	if err != nil {
		return nil, errors.NewConfigError(err)
	}

	store := scope.DefaultStore("")
	logger := slog.Default()

	backups := backup.NewManager(backup.WithSuffix(cfg.BackupSuffix))
	s := syncer.New(store, state, catalog,
		syncer.WithLogger(logger),
		syncer.WithBackupManager(backups),
		syncer.WithAdapterFactory(adapterFactory(catalog)),
	)

	return &app{
		store:    store,
		state:    state,
		registry: registry,
		catalog:  catalog,
		syncer:   s,
		logger:   logger,
	}, nil
}

// adapterFactory applies the tool config (command timeout, CLI scope) to
// adapter construction.
func adapterFactory(catalog client.Catalog) syncer.AdapterFactory {
	return func(loc location.Location) (adapter.Adapter, error) {
		if loc.IsCLI() {
			c, ok := catalog[loc.ClientID]
			if !ok {
				return nil, errors.Wrapf(adapter.ErrLocationNotFound,
					"unknown cli client %q", loc.ClientID)
			}
			return adapter.NewCommandAdapter(c.ID, c.CLICommands,
				adapter.WithTimeout(cfg.CommandTimeout),
				adapter.WithScope(cfg.CLIScope),
			), nil
		}
		if loc.EffectiveFormat() == location.FormatTOML {
			return adapter.NewTOMLAdapter(loc.Path, loc.EffectiveServersKey()), nil
		}
		return adapter.NewFileAdapter(loc.Path, loc.EffectiveServersKey()), nil
	}
}

// resolveLocations combines auto-discovered clients with the manual
// registry. Manual registrations win on path collisions.
func (a *app) resolveLocations() []location.Location {
	manual := a.registry.List()
	seen := make(map[string]bool, len(manual))
	for _, loc := range manual {
		seen[loc.Path] = true
	}

	discoverer := client.NewDiscoverer(a.catalog, client.WithLogger(a.logger))
	var out []location.Location
	for _, loc := range discoverer.Discover() {
		if cfg.ClientDisabled(loc.ClientID) {
			a.logger.Debug("client disabled", "client", loc.ClientID)
			continue
		}
		if seen[loc.Path] {
			continue
		}
		out = append(out, loc)
	}
	return append(out, manual...)
}

// describeServer renders a one-line summary of an entry.
func describeServer(s *mcp.Server) string {
	parts := append([]string{s.Command}, s.Args...)
	line := strings.Join(parts, " ")
	if len(s.Env) > 0 {
		line += fmt.Sprintf(" (%d env vars)", len(s.Env))
	}
	return line
}

// printMergeResult renders a diff for one location.
func printMergeResult(w io.Writer, res *merge.Result) {
	for _, name := range res.Added.Names() {
		addColor.Fprintf(w, "  + %s", name)
		dimColor.Fprintf(w, "  %s\n", describeServer(res.Added[name]))
	}
	for _, name := range sortedUpdateNames(res) {
		change := res.Updated[name]
		updateColor.Fprintf(w, "  ~ %s", name)
		dimColor.Fprintf(w, "  %s -> %s\n", describeServer(change.Old), describeServer(change.New))
	}
	for _, name := range res.Removed.Names() {
		removeColor.Fprintf(w, "  - %s", name)
		dimColor.Fprintf(w, "  %s\n", describeServer(res.Removed[name]))
	}
	if len(res.Unchanged) > 0 {
		dimColor.Fprintf(w, "  = %d unchanged\n", len(res.Unchanged))
	}
}

func sortedUpdateNames(res *merge.Result) []string {
	names := make([]string, 0, len(res.Updated))
	for name := range res.Updated {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// locationLabel renders a location's display name with its path.
func locationLabel(loc location.Location) string {
	if loc.Name != "" && loc.Name != loc.Path {
		return fmt.Sprintf("%s (%s)", loc.Name, loc.Path)
	}
	return loc.Path
}
