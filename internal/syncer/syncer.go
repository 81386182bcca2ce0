// Package syncer orchestrates a reconciliation run: it builds the source of
// truth from the scope tiers, merges it against every target location, and
// applies the resulting diffs through the format adapters.
//
// Locations are processed sequentially and independently; one location's
// failure never stops the run. Only a failure to build the source of truth
// aborts, because without it nothing is safe to write.
package syncer

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ztripez/mcp-sync/internal/adapter"
	"github.com/ztripez/mcp-sync/internal/backup"
	"github.com/ztripez/mcp-sync/internal/client"
	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/location"
	"github.com/ztripez/mcp-sync/internal/mcp"
	"github.com/ztripez/mcp-sync/internal/merge"
	"github.com/ztripez/mcp-sync/internal/paths"
	"github.com/ztripez/mcp-sync/internal/scope"
)

// Per-location outcomes of a sync run.
const (
	// OutcomeApplied means the location's diff was fully written.
	OutcomeApplied = "applied"

	// OutcomeUnchanged means the location already matched the source.
	OutcomeUnchanged = "unchanged"

	// OutcomeDryRun means a non-empty diff was computed but not applied.
	OutcomeDryRun = "dry-run"

	// OutcomePartial means some command-backed entries applied and some
	// failed.
	OutcomePartial = "partial"

	// OutcomeFailed means nothing was changed at the location.
	OutcomeFailed = "failed"
)

// Options filter and shape a sync run.
type Options struct {
	// DryRun computes diffs without writing anything.
	DryRun bool

	// GlobalOnly restricts the source to the global tier and skips
	// project-scoped locations.
	GlobalOnly bool

	// ProjectOnly restricts the source to the project tier and skips
	// global-scoped locations.
	ProjectOnly bool

	// Location restricts the run to a single location path.
	Location string
}

// LocationReport is the outcome of one location in a run.
type LocationReport struct {
	Location location.Location
	Outcome  string

	// Result is the computed diff, nil when the location failed to load.
	Result *merge.Result

	// Entries holds per-entry outcomes for command-backed locations.
	Entries []adapter.EntryResult

	// RolledBack reports whether a failed file write was restored from its
	// backup.
	RolledBack bool

	// Err is set for failed and partial outcomes.
	Err error
}

// Changed reports whether the location changed (or would change, dry-run).
func (r LocationReport) Changed() bool {
	return r.Result != nil && !r.Result.Empty()
}

// Report is the outcome of a whole run.
type Report struct {
	DryRun  bool
	Reports []LocationReport
}

// Summary totals per-entry changes across a run's locations.
type Summary struct {
	Locations int
	Changed   int
	Failed    int
	Added     int
	Updated   int
	Removed   int
}

// Summary tallies the run's reports.
func (r *Report) Summary() Summary {
	s := Summary{Locations: len(r.Reports)}
	for _, lr := range r.Reports {
		if lr.Changed() {
			s.Changed++
		}
		if lr.Outcome == OutcomeFailed || lr.Outcome == OutcomePartial {
			s.Failed++
		}
		s.Added += lr.Result.AddedCount()
		s.Updated += lr.Result.UpdatedCount()
		s.Removed += lr.Result.RemovedCount()
	}
	return s
}

// Failed returns the reports with failed or partial outcomes.
func (r *Report) Failed() []LocationReport {
	var out []LocationReport
	for _, lr := range r.Reports {
		if lr.Outcome == OutcomeFailed || lr.Outcome == OutcomePartial {
			out = append(out, lr)
		}
	}
	return out
}

// AdapterFactory builds the adapter for one location. Replaceable in tests.
type AdapterFactory func(loc location.Location) (adapter.Adapter, error)

// Syncer reconciles target locations against the source of truth.
type Syncer struct {
	store    *scope.Store
	state    *location.State
	backups  *backup.Manager
	catalog  client.Catalog
	logger   *slog.Logger
	adapters AdapterFactory
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithLogger sets the run logger.
func WithLogger(logger *slog.Logger) SyncerOption {
	return func(s *Syncer) { s.logger = logger }
}

// WithBackupManager replaces the backup manager.
func WithBackupManager(m *backup.Manager) SyncerOption {
	return func(s *Syncer) { s.backups = m }
}

// WithAdapterFactory replaces adapter construction. Used in tests to inject
// failing adapters.
func WithAdapterFactory(fn AdapterFactory) SyncerOption {
	return func(s *Syncer) { s.adapters = fn }
}

// New creates a Syncer.
func New(store *scope.Store, state *location.State, catalog client.Catalog, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		store:   store,
		state:   state,
		backups: backup.NewManager(),
		catalog: catalog,
		logger:  slog.Default(),
	}
	s.adapters = s.defaultAdapter
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// defaultAdapter picks the adapter family from the location's config type
// and format.
func (s *Syncer) defaultAdapter(loc location.Location) (adapter.Adapter, error) {
	if loc.IsCLI() {
		c, ok := s.catalog[loc.ClientID]
		if !ok {
			return nil, errors.Wrapf(adapter.ErrLocationNotFound, "unknown cli client %q", loc.ClientID)
		}
		return adapter.NewCommandAdapter(c.ID, c.CLICommands), nil
	}
	if loc.EffectiveFormat() == location.FormatTOML {
		return adapter.NewTOMLAdapter(loc.Path, loc.EffectiveServersKey()), nil
	}
	return adapter.NewFileAdapter(loc.Path, loc.EffectiveServersKey()), nil
}

// Sync reconciles the given locations against the source of truth and
// returns a per-location report. Returns an error only when the source
// itself cannot be built.
func (s *Syncer) Sync(locations []location.Location, opts Options) (*Report, error) {
	source, err := s.store.Source(opts.GlobalOnly, opts.ProjectOnly)
	if err != nil {
		return nil, err
	}

	report := &Report{DryRun: opts.DryRun}
	for _, loc := range filterLocations(locations, opts) {
		lr := s.syncLocation(loc, source, opts.DryRun)
		report.Reports = append(report.Reports, lr)

		s.logger.Debug("location synced",
			"location", loc.Path,
			"outcome", lr.Outcome,
			"added", lr.Result.AddedCount(),
			"updated", lr.Result.UpdatedCount(),
			"removed", lr.Result.RemovedCount(),
		)
	}

	if !opts.DryRun {
		if err := s.state.Save(); err != nil {
			return report, errors.Wrap(err, "saving sync state")
		}
	}
	return report, nil
}

// syncLocation runs the merge-and-apply cycle for one location.
func (s *Syncer) syncLocation(loc location.Location, source mcp.ServerSet, dryRun bool) LocationReport {
	lr := LocationReport{Location: loc}

	a, err := s.adapters(loc)
	if err != nil {
		lr.Outcome = OutcomeFailed
		lr.Err = err
		return lr
	}

	target, err := a.Load()
	if err != nil {
		lr.Outcome = OutcomeFailed
		lr.Err = errors.Wrapf(err, "loading %s", loc.Path)
		return lr
	}

	managed, _ := s.state.Managed(loc.Path)
	lr.Result = merge.Compute(source, target, managed)

	switch {
	case lr.Result.Empty():
		lr.Outcome = OutcomeUnchanged
		if !dryRun {
			s.state.SetManaged(loc.Path, source.Names())
		}
	case dryRun:
		lr.Outcome = OutcomeDryRun
	default:
		s.apply(a, &lr, source)
	}
	return lr
}

// apply writes a non-empty diff through the location's adapter and updates
// the managed-names marker to match what actually landed.
func (s *Syncer) apply(a adapter.Adapter, lr *LocationReport, source mcp.ServerSet) {
	switch impl := a.(type) {
	case adapter.FileWriter:
		s.applyFile(impl, lr, source)
	case adapter.DiffApplier:
		s.applyCLI(impl, lr, source)
	default:
		lr.Outcome = OutcomeFailed
		lr.Err = errors.Newf("adapter for %s supports neither write nor apply", lr.Location.Path)
	}
}

// applyFile snapshots the target file, writes the desired set, and rolls
// back on failure.
func (s *Syncer) applyFile(w adapter.FileWriter, lr *LocationReport, source mcp.ServerSet) {
	snap, err := s.backups.Snapshot(w.Path())
	if err != nil {
		lr.Outcome = OutcomeFailed
		lr.Err = errors.Wrapf(err, "backing up %s", w.Path())
		return
	}

	if err := w.Write(lr.Result.Desired()); err != nil {
		lr.Outcome = OutcomeFailed
		lr.Err = errors.Wrapf(err, "writing %s", w.Path())
		if restoreErr := s.backups.Restore(snap); restoreErr != nil {
			s.logger.Error("rollback failed", "path", w.Path(), "error", restoreErr)
			lr.Err = errors.Join(lr.Err, restoreErr)
		} else {
			lr.RolledBack = true
		}
		return
	}

	lr.Outcome = OutcomeApplied
	s.state.SetManaged(lr.Location.Path, source.Names())
}

// applyCLI replays the diff entry by entry. The marker records only the
// source entries that actually landed; a failed removal stays in the marker
// so a later run retries it.
func (s *Syncer) applyCLI(d adapter.DiffApplier, lr *LocationReport, source mcp.ServerSet) {
	lr.Entries = d.Apply(lr.Result)

	landed := make(map[string]bool, len(source))
	for name := range source {
		landed[name] = true
	}
	var failed []string
	for _, er := range lr.Entries {
		if er.Err == nil {
			continue
		}
		failed = append(failed, er.Name)
		switch er.Action {
		case adapter.ActionAdd, adapter.ActionUpdate:
			delete(landed, er.Name)
		case adapter.ActionRemove:
			landed[er.Name] = true
		}
	}

	names := make([]string, 0, len(landed))
	for name := range landed {
		names = append(names, name)
	}
	sort.Strings(names)
	s.state.SetManaged(lr.Location.Path, names)

	switch {
	case len(failed) == 0:
		lr.Outcome = OutcomeApplied
	case len(failed) == len(lr.Entries):
		lr.Outcome = OutcomeFailed
		lr.Err = errors.Wrapf(adapter.ErrCommandFailed, "all %d entries failed", len(failed))
	default:
		lr.Outcome = OutcomePartial
		lr.Err = errors.Wrapf(adapter.ErrCommandFailed, "entries failed: %s", strings.Join(failed, ", "))
	}
}

// filterLocations applies the run filters: the project config file itself
// is never a sync target, and scope filters drop the opposite tier's
// locations.
func filterLocations(locations []location.Location, opts Options) []location.Location {
	if opts.Location != "" {
		for _, loc := range locations {
			if loc.Path == opts.Location || loc.Name == opts.Location {
				return []location.Location{loc}
			}
		}
		return nil
	}

	var out []location.Location
	for _, loc := range locations {
		if filepath.Base(loc.Path) == paths.ProjectConfigName {
			continue
		}
		if opts.GlobalOnly && loc.EffectiveScope() == location.ScopeProject {
			continue
		}
		if opts.ProjectOnly && loc.EffectiveScope() == location.ScopeGlobal {
			continue
		}
		out = append(out, loc)
	}
	return out
}
