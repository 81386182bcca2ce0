package location

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/pkg/fileutil"
)

// LocationState records what the last sync wrote to one location.
type LocationState struct {
	// Names is the sorted set of entry names the last sync managed.
	Names []string `json:"names"`

	// SyncedAt is when the marker was last updated.
	SyncedAt time.Time `json:"synced_at"`
}

// stateFile is the on-disk shape of state.json.
type stateFile struct {
	Locations map[string]LocationState `json:"locations"`
}

// State is the managed-names marker store. It distinguishes entries
// mcp-sync previously wrote to a location from entries the user added by
// hand, which removal detection must never touch.
type State struct {
	path    string
	entries map[string]LocationState
}

// LoadState reads the state file from path. A missing file yields an empty
// state (no location has a managed-names record).
func LoadState(path string) (*State, error) {
	s := &State{
		path:    path,
		entries: make(map[string]LocationState),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "reading sync state")
	}

	var file stateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "parsing sync state")
	}
	if file.Locations != nil {
		s.entries = file.Locations
	}
	return s, nil
}

// Managed returns the managed name set for a location path. The second
// return value reports whether a record exists at all; callers must treat
// "no record" differently from "empty record".
func (s *State) Managed(path string) ([]string, bool) {
	entry, ok := s.entries[path]
	if !ok {
		return nil, false
	}
	names := make([]string, len(entry.Names))
	copy(names, entry.Names)
	return names, true
}

// SetManaged records the name set the latest sync wrote to a location.
func (s *State) SetManaged(path string, names []string) {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	s.entries[path] = LocationState{
		Names:    sorted,
		SyncedAt: time.Now().UTC(),
	}
}

// Forget drops a location's record, e.g. when it is unregistered.
func (s *State) Forget(path string) {
	delete(s.entries, path)
}

// Save writes the state atomically, creating the parent directory if needed.
func (s *State) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	file := stateFile{Locations: s.entries}
	return errors.Wrap(fileutil.AtomicWriteJSON(s.path, file), "writing sync state")
}
