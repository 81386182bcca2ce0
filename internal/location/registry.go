package location

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/pkg/fileutil"
)

// Sentinel errors for registry operations.
var (
	// ErrDuplicateLocation indicates the path is already registered.
	ErrDuplicateLocation = errors.New("location already registered")

	// ErrLocationNotRegistered indicates the path is not in the registry.
	ErrLocationNotRegistered = errors.New("location not registered")
)

// registryFile is the on-disk shape of locations.json.
type registryFile struct {
	Locations []Location `json:"locations"`
}

// Registry persists manually registered locations.
type Registry struct {
	path      string
	locations []Location
}

// LoadRegistry reads the registry from path. A missing file yields an empty
// registry.
func LoadRegistry(path string) (*Registry, error) {
	r := &Registry{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, errors.Wrap(err, "reading location registry")
	}

	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "parsing location registry")
	}

	r.locations = file.Locations
	return r, nil
}

// List returns the registered locations in registration order.
func (r *Registry) List() []Location {
	out := make([]Location, len(r.locations))
	copy(out, r.locations)
	return out
}

// Add registers a manual location and saves the registry.
// Returns ErrDuplicateLocation if the path is already registered.
func (r *Registry) Add(loc Location) error {
	if loc.Path == "" {
		return errors.New("location path is required")
	}
	for _, existing := range r.locations {
		if existing.Path == loc.Path {
			return errors.Wrapf(ErrDuplicateLocation, "%s", loc.Path)
		}
	}

	loc.Type = TypeManual
	if loc.Name == "" {
		loc.Name = stem(loc.Path)
	}
	if loc.ConfigType == "" {
		loc.ConfigType = ConfigFile
	}

	r.locations = append(r.locations, loc)
	return r.save()
}

// Remove unregisters the location with the given path and saves the
// registry. Returns ErrLocationNotRegistered if the path is unknown.
func (r *Registry) Remove(path string) error {
	for i, existing := range r.locations {
		if existing.Path == path {
			r.locations = append(r.locations[:i], r.locations[i+1:]...)
			return r.save()
		}
	}
	return errors.Wrapf(ErrLocationNotRegistered, "%s", path)
}

// save writes the registry atomically, creating the parent directory if
// needed.
func (r *Registry) save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	file := registryFile{Locations: r.locations}
	return errors.Wrap(fileutil.AtomicWriteJSON(r.path, file), "writing location registry")
}

// stem returns the file name without its extension, used as a default alias.
func stem(path string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndexByte(base, '.'); idx > 0 {
		return base[:idx]
	}
	return base
}
