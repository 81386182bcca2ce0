package client

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"time"

	"github.com/ztripez/mcp-sync/internal/adapter"
	"github.com/ztripez/mcp-sync/internal/location"
	"github.com/ztripez/mcp-sync/internal/paths"
)

// probeTimeout bounds the --version probe for CLI clients.
const probeTimeout = 5 * time.Second

// Discoverer finds catalog clients present on this machine.
type Discoverer struct {
	catalog  Catalog
	goos     string
	statFile func(string) bool
	cliCheck func(Client) bool
	logger   *slog.Logger
}

// DiscoverOption configures a Discoverer.
type DiscoverOption func(*Discoverer)

// WithGOOS overrides the platform used for path template selection.
// Used in tests.
func WithGOOS(goos string) DiscoverOption {
	return func(d *Discoverer) { d.goos = goos }
}

// WithFileCheck replaces the file existence probe. Used in tests.
func WithFileCheck(fn func(path string) bool) DiscoverOption {
	return func(d *Discoverer) { d.statFile = fn }
}

// WithCLICheck replaces the CLI availability probe. Used in tests.
func WithCLICheck(fn func(Client) bool) DiscoverOption {
	return func(d *Discoverer) { d.cliCheck = fn }
}

// WithLogger sets the discovery logger.
func WithLogger(logger *slog.Logger) DiscoverOption {
	return func(d *Discoverer) { d.logger = logger }
}

// NewDiscoverer creates a Discoverer over a catalog.
func NewDiscoverer(catalog Catalog, opts ...DiscoverOption) *Discoverer {
	d := &Discoverer{
		catalog:  catalog,
		goos:     runtime.GOOS,
		statFile: fileExists,
		cliCheck: cliAvailable,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover returns a location for every catalog client present on this
// machine: file clients whose config file exists, CLI clients whose binary
// answers a version probe. Results are sorted by client id.
func (d *Discoverer) Discover() []location.Location {
	var found []location.Location

	for _, id := range d.catalog.IDs() {
		c := d.catalog[id]
		if loc, ok := d.locate(c); ok {
			found = append(found, loc)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].ClientID < found[j].ClientID
	})
	return found
}

// locate checks one client for presence.
func (d *Discoverer) locate(c Client) (location.Location, bool) {
	if c.IsCLI() {
		if !d.cliCheck(c) {
			d.logger.Debug("cli client not available", "client", c.ID)
			return location.Location{}, false
		}
		return location.Location{
			Path:        "cli:" + c.ID,
			Name:        c.ID,
			Type:        location.TypeAuto,
			ConfigType:  location.ConfigCLI,
			ClientID:    c.ID,
			ClientName:  c.Name,
			Description: c.Description,
		}, true
	}

	tmpl := c.PathTemplate(d.goos)
	if tmpl == "" {
		return location.Location{}, false
	}
	path := paths.ExpandTemplate(tmpl)
	if !d.statFile(path) {
		d.logger.Debug("client config not found", "client", c.ID, "path", path)
		return location.Location{}, false
	}

	return location.Location{
		Path:        path,
		Name:        c.ID,
		Type:        location.TypeAuto,
		ConfigType:  location.ConfigFile,
		Format:      c.Format,
		ServersKey:  c.ServersKey,
		ClientID:    c.ID,
		ClientName:  c.Name,
		Description: c.Description,
	}, true
}

// fileExists is the default file probe.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// cliAvailable probes a CLI client by running its list command's executable
// with --version. A client with no list command is never available.
func cliAvailable(c Client) bool {
	parts := splitTemplate(c.CLICommands[adapter.CmdList])
	if len(parts) == 0 {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	return exec.CommandContext(ctx, parts[0], "--version").Run() == nil
}

// splitTemplate splits a command template on spaces, good enough for the
// availability probe which only needs the executable token.
func splitTemplate(s string) []string {
	var fields []string
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\t' {
			if start >= 0 {
				fields = append(fields, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, s[start:])
	}
	return fields
}
