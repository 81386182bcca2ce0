package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the application name used for config directory naming.
const AppName = "mcp-sync"

// ProjectConfigName is the fixed filename of the project-scoped config,
// located at a project root.
const ProjectConfigName = ".mcp.json"

// ConfigDirEnv overrides the config directory location when set.
// Primarily useful for tests and sandboxed environments.
const ConfigDirEnv = "MCP_SYNC_CONFIG_DIR"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// ConfigDir returns mcp-sync's own config directory.
// On Linux: ~/.config/mcp-sync
// On macOS: ~/Library/Application Support/mcp-sync
// Honors the MCP_SYNC_CONFIG_DIR environment variable.
func ConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, AppName)
}

// GlobalConfigPath returns the path of the global (user-wide) server config.
func GlobalConfigPath() string {
	return filepath.Join(ConfigDir(), "global.json")
}

// LocationsPath returns the path of the persisted location registry.
func LocationsPath() string {
	return filepath.Join(ConfigDir(), "locations.json")
}

// StatePath returns the path of the managed-names sync state file.
func StatePath() string {
	return filepath.Join(ConfigDir(), "state.json")
}

// UserClientsPath returns the path of the user client definition overrides.
func UserClientsPath() string {
	return filepath.Join(ConfigDir(), "clients.json")
}

// ProjectConfigPath returns the project config path for a project root.
// An empty root means the current working directory.
func ProjectConfigPath(root string) string {
	if root == "" {
		root = "."
	}
	return filepath.Join(root, ProjectConfigName)
}

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory, or an empty string if unknown.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ExpandTemplate expands a client path template into an absolute path.
// It handles a leading ~ for the home directory and $VAR / %VAR%
// environment references.
func ExpandTemplate(template string) string {
	path := template

	if path == "~" {
		path = Home()
	} else if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		path = filepath.Join(Home(), path[2:])
	}

	// Windows-style %VAR% references
	if strings.Contains(path, "%") {
		path = expandWindowsEnv(path)
	}

	if strings.Contains(path, "$") {
		path = os.ExpandEnv(path)
	}

	return filepath.Clean(path)
}

// expandWindowsEnv replaces %VAR% references with their environment values.
// Unset variables are left untouched.
func expandWindowsEnv(path string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(path, '%')
		if start < 0 {
			b.WriteString(path)
			break
		}
		end := strings.IndexByte(path[start+1:], '%')
		if end < 0 {
			b.WriteString(path)
			break
		}
		name := path[start+1 : start+1+end]
		b.WriteString(path[:start])
		if val, ok := os.LookupEnv(name); ok {
			b.WriteString(val)
		} else {
			b.WriteString(path[start : start+end+2])
		}
		path = path[start+end+2:]
	}
	return b.String()
}
