// Package client holds the catalog of known AI tools and discovers which of
// them are present on this machine.
//
// The builtin catalog ships in the binary; a clients.json in the config
// directory can add new clients or override builtin ones by id.
package client

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/location"
)

// Client describes one known AI tool and how its MCP servers are
// configured.
type Client struct {
	// ID is the catalog key, e.g. "claude-desktop". Not serialized; it is
	// the map key in clients.json.
	ID string `json:"-"`

	// Name is the display name.
	Name string `json:"name"`

	// Description is free-form.
	Description string `json:"description,omitempty"`

	// ConfigType is location.ConfigFile or location.ConfigCLI.
	ConfigType string `json:"config_type,omitempty"`

	// Format is the config file format for file clients (json or toml).
	Format string `json:"format,omitempty"`

	// ServersKey is the (possibly dotted) key of the server map in the
	// client's file. Empty means "mcpServers".
	ServersKey string `json:"servers_key,omitempty"`

	// Paths maps GOOS (darwin, linux, windows) to a config path template.
	// Templates may use ~, $VAR and %VAR%.
	Paths map[string]string `json:"paths,omitempty"`

	// FallbackPaths is consulted when Paths has no entry for the platform.
	FallbackPaths map[string]string `json:"fallback_paths,omitempty"`

	// CLICommands maps operation keys (list_mcp, get_mcp, add_mcp,
	// remove_mcp) to command templates for CLI clients.
	CLICommands map[string]string `json:"cli_commands,omitempty"`
}

// IsCLI reports whether the client is managed through its own CLI.
func (c Client) IsCLI() bool {
	return c.ConfigType == location.ConfigCLI
}

// PathTemplate returns the config path template for a platform, falling
// back to FallbackPaths. Empty when the client has no path for it.
func (c Client) PathTemplate(goos string) string {
	if tmpl, ok := c.Paths[goos]; ok && tmpl != "" {
		return tmpl
	}
	return c.FallbackPaths[goos]
}

// Catalog is the set of known clients, keyed by id.
type Catalog map[string]Client

// IDs returns the catalog keys, sorted.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// catalogFile is the on-disk shape of clients.json.
type catalogFile struct {
	Clients map[string]Client `json:"clients"`
}

// Builtin returns the shipped client catalog.
func Builtin() Catalog {
	return Catalog{
		"claude-desktop": {
			ID:          "claude-desktop",
			Name:        "Claude Desktop",
			Description: "Anthropic's desktop app",
			ConfigType:  location.ConfigFile,
			Paths: map[string]string{
				"darwin":  "~/Library/Application Support/Claude/claude_desktop_config.json",
				"linux":   "~/.config/Claude/claude_desktop_config.json",
				"windows": `%APPDATA%\Claude\claude_desktop_config.json`,
			},
		},
		"claude-code": {
			ID:          "claude-code",
			Name:        "Claude Code",
			Description: "Anthropic's CLI, managed through its own mcp subcommands",
			ConfigType:  location.ConfigCLI,
			CLICommands: map[string]string{
				"list_mcp":   "claude mcp list",
				"get_mcp":    "claude mcp get {name}",
				"add_mcp":    "claude mcp add --scope {scope} {env_flags} {name} {command} {args}",
				"remove_mcp": "claude mcp remove --scope {scope} {name}",
			},
		},
		"cursor": {
			ID:          "cursor",
			Name:        "Cursor",
			Description: "Cursor editor",
			ConfigType:  location.ConfigFile,
			Paths: map[string]string{
				"darwin":  "~/.cursor/mcp.json",
				"linux":   "~/.cursor/mcp.json",
				"windows": `%USERPROFILE%\.cursor\mcp.json`,
			},
		},
		"windsurf": {
			ID:          "windsurf",
			Name:        "Windsurf",
			Description: "Codeium's Windsurf editor",
			ConfigType:  location.ConfigFile,
			Paths: map[string]string{
				"darwin":  "~/.codeium/windsurf/mcp_config.json",
				"linux":   "~/.codeium/windsurf/mcp_config.json",
				"windows": `%USERPROFILE%\.codeium\windsurf\mcp_config.json`,
			},
		},
		"cline": {
			ID:          "cline",
			Name:        "Cline",
			Description: "Cline VS Code extension",
			ConfigType:  location.ConfigFile,
			Paths: map[string]string{
				"darwin":  "~/Library/Application Support/Code/User/globalStorage/saoudrizwan.claude-dev/settings/cline_mcp_settings.json",
				"linux":   "~/.config/Code/User/globalStorage/saoudrizwan.claude-dev/settings/cline_mcp_settings.json",
				"windows": `%APPDATA%\Code\User\globalStorage\saoudrizwan.claude-dev\settings\cline_mcp_settings.json`,
			},
		},
		"continue": {
			ID:          "continue",
			Name:        "Continue",
			Description: "Continue extension",
			ConfigType:  location.ConfigFile,
			Paths: map[string]string{
				"darwin":  "~/.continue/config.json",
				"linux":   "~/.continue/config.json",
				"windows": `%USERPROFILE%\.continue\config.json`,
			},
		},
		"gemini": {
			ID:          "gemini",
			Name:        "Gemini CLI",
			Description: "Google's Gemini CLI",
			ConfigType:  location.ConfigFile,
			Paths: map[string]string{
				"darwin":  "~/.gemini/settings.json",
				"linux":   "~/.gemini/settings.json",
				"windows": `%USERPROFILE%\.gemini\settings.json`,
			},
		},
		"codex": {
			ID:          "codex",
			Name:        "Codex CLI",
			Description: "OpenAI's Codex CLI",
			ConfigType:  location.ConfigFile,
			Format:      location.FormatTOML,
			ServersKey:  "mcp_servers",
			Paths: map[string]string{
				"darwin":  "~/.codex/config.toml",
				"linux":   "~/.codex/config.toml",
				"windows": `%USERPROFILE%\.codex\config.toml`,
			},
		},
	}
}

// LoadCatalog returns the builtin catalog merged with user overrides from
// userPath (clients.json). A user entry replaces a builtin entry with the
// same id wholesale. A missing file yields the builtin catalog.
func LoadCatalog(userPath string) (Catalog, error) {
	catalog := Builtin()

	data, err := os.ReadFile(userPath)
	if err != nil {
		if os.IsNotExist(err) {
			return catalog, nil
		}
		return nil, errors.Wrap(err, "reading client overrides")
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "parsing client overrides")
	}

	for id, c := range file.Clients {
		c.ID = id
		if c.ConfigType == "" {
			c.ConfigType = location.ConfigFile
		}
		catalog[id] = c
	}
	return catalog, nil
}
