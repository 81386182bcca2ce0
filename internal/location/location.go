// Package location models sync targets and their persistence: the registry
// of manually added locations (locations.json) and the managed-names state
// the orchestrator uses to tell tool-owned entries from user-added ones
// (state.json).
//
// Auto-discovered locations are recomputed on every invocation and never
// persisted; only manual registrations survive a run.
package location

// Location types.
const (
	// TypeAuto marks a location discovered from the client catalog.
	// Auto locations are ephemeral and recomputed each run.
	TypeAuto = "auto"

	// TypeManual marks a location registered by the user.
	// Manual locations persist in the registry.
	TypeManual = "manual"
)

// Config types, selecting the format adapter for a location.
const (
	// ConfigFile is a file-backed location (JSON or TOML).
	ConfigFile = "file"

	// ConfigCLI is a command-backed location driven through an external
	// client binary.
	ConfigCLI = "cli"
)

// File formats for file-backed locations.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Scopes a location can be tied to.
const (
	ScopeGlobal  = "global"
	ScopeProject = "project"
)

// Location identifies a sync target: a tool's config file or its CLI
// interface.
type Location struct {
	// Path is the config file path, or "cli:<client-id>" for command-backed
	// locations. Unique across a run.
	Path string `json:"path"`

	// Name is a friendly alias, defaulting to the client id or file stem.
	Name string `json:"name"`

	// Type is TypeAuto or TypeManual.
	Type string `json:"type"`

	// ConfigType is ConfigFile or ConfigCLI. Defaults to ConfigFile.
	ConfigType string `json:"config_type,omitempty"`

	// Format is FormatJSON or FormatTOML for file-backed locations.
	// Defaults to FormatJSON.
	Format string `json:"format,omitempty"`

	// ServersKey is the (possibly dotted) key path of the server map in the
	// tool's file. Defaults to "mcpServers".
	ServersKey string `json:"servers_key,omitempty"`

	// Scope ties the location to the global or project tier for filtering.
	// Defaults to ScopeGlobal.
	Scope string `json:"scope,omitempty"`

	// ClientID references the catalog client this location belongs to, when
	// auto-discovered.
	ClientID string `json:"client_id,omitempty"`

	// ClientName is the catalog client's display name.
	ClientName string `json:"client_name,omitempty"`

	// Description is free-form catalog metadata.
	Description string `json:"description,omitempty"`
}

// IsCLI reports whether the location is command-backed.
func (l Location) IsCLI() bool {
	return l.ConfigType == ConfigCLI
}

// EffectiveFormat returns the location's file format, defaulting to JSON.
func (l Location) EffectiveFormat() string {
	if l.Format == "" {
		return FormatJSON
	}
	return l.Format
}

// EffectiveServersKey returns the servers key, defaulting to "mcpServers".
func (l Location) EffectiveServersKey() string {
	if l.ServersKey == "" {
		return "mcpServers"
	}
	return l.ServersKey
}

// EffectiveScope returns the scope, defaulting to global.
func (l Location) EffectiveScope() string {
	if l.Scope == "" {
		return ScopeGlobal
	}
	return l.Scope
}
