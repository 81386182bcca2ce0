package syncer

import (
	"github.com/ztripez/mcp-sync/internal/location"
	"github.com/ztripez/mcp-sync/internal/mcp"
)

// LocationStatus is one location's current state as seen by Status.
type LocationStatus struct {
	Location location.Location

	// Servers is the location's current set, nil when loading failed.
	Servers mcp.ServerSet

	// Managed lists the names the last sync wrote here; nil when no record
	// exists.
	Managed []string

	Err error
}

// Status is a read-only snapshot of the source tiers and every location.
type Status struct {
	Global    mcp.ServerSet
	Project   mcp.ServerSet
	Locations []LocationStatus
}

// Status inspects the source tiers and the given locations without writing
// anything. Tier load failures are fatal; location failures are reported
// per location.
func (s *Syncer) Status(locations []location.Location) (*Status, error) {
	global, err := s.store.LoadGlobal()
	if err != nil {
		return nil, err
	}
	project, err := s.store.LoadProject()
	if err != nil {
		return nil, err
	}

	st := &Status{Global: global, Project: project}
	for _, loc := range locations {
		ls := LocationStatus{Location: loc}
		ls.Managed, _ = s.state.Managed(loc.Path)

		if a, err := s.adapters(loc); err != nil {
			ls.Err = err
		} else if set, err := a.Load(); err != nil {
			ls.Err = err
		} else {
			ls.Servers = set
		}
		st.Locations = append(st.Locations, ls)
	}
	return st, nil
}
