package adapter

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/mcp"
	"github.com/ztripez/mcp-sync/pkg/fileutil"
)

// TOMLAdapter reads and writes a TOML settings file (Gemini CLI style).
// Unrelated keys are preserved at the value level: the file is decoded into
// generic maps and re-encoded, so formatting and comments do not survive,
// but no data is lost.
type TOMLAdapter struct {
	path    string
	keyPath []string
}

// NewTOMLAdapter creates a TOML file adapter for the given path and
// (possibly dotted) servers key.
func NewTOMLAdapter(path, serversKey string) *TOMLAdapter {
	return &TOMLAdapter{
		path:    path,
		keyPath: mcp.ParseKeyPath(serversKey),
	}
}

// Path returns the settings file path.
func (a *TOMLAdapter) Path() string {
	return a.path
}

// Load returns the file's current server set.
// A missing file yields an empty set.
func (a *TOMLAdapter) Load() (mcp.ServerSet, error) {
	root, err := a.loadTree()
	if err != nil {
		return nil, err
	}

	node, ok := walkTree(root, a.keyPath)
	if !ok {
		return mcp.NewServerSet(), nil
	}

	entries, ok := node.(map[string]any)
	if !ok {
		return nil, errors.Wrapf(mcp.ErrMalformedConfig, "%q is not a table",
			strings.Join(a.keyPath, "."))
	}

	set := mcp.NewServerSet()
	for name, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, errors.Wrapf(mcp.ErrMalformedConfig, "server %q is not a table", name)
		}
		server, err := serverFromTable(name, entry)
		if err != nil {
			return nil, err
		}
		set[name] = server
	}
	return set, nil
}

// Write replaces the file's server set atomically, keeping sibling keys.
func (a *TOMLAdapter) Write(set mcp.ServerSet) error {
	root, err := a.loadTree()
	if err != nil {
		return err
	}

	entries := make(map[string]any, len(set))
	for _, name := range set.Names() {
		entries[name] = tableFromServer(set[name])
	}

	if err := setTree(root, a.keyPath, entries); err != nil {
		return err
	}

	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(ErrIO, "creating directory %s: %v", dir, err)
	}
	if err := fileutil.AtomicWriteTOML(a.path, root); err != nil {
		return errors.Wrapf(ErrIO, "writing %s: %v", a.path, err)
	}
	return nil
}

// loadTree decodes the whole file into generic maps.
// A missing file yields an empty tree.
func (a *TOMLAdapter) loadTree() (map[string]any, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]any), nil
		}
		return nil, errors.Wrapf(ErrIO, "reading %s: %v", a.path, err)
	}

	root := make(map[string]any)
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrapf(mcp.ErrMalformedConfig, "parsing %s: %v", a.path, err)
	}
	return root, nil
}

// walkTree descends the key path through nested tables.
func walkTree(root map[string]any, path []string) (any, bool) {
	var node any = root
	for _, key := range path {
		table, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = table[key]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// setTree writes value at the key path, creating intermediate tables and
// preserving siblings.
func setTree(root map[string]any, path []string, value any) error {
	table := root
	for _, key := range path[:len(path)-1] {
		child, ok := table[key]
		if !ok {
			next := make(map[string]any)
			table[key] = next
			table = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return errors.Wrapf(mcp.ErrMalformedConfig, "%q is not a table", key)
		}
		table = next
	}
	table[path[len(path)-1]] = value
	return nil
}

// serverFromTable converts a decoded TOML table into a Server.
func serverFromTable(name string, entry map[string]any) (*mcp.Server, error) {
	command, _ := entry["command"].(string)
	if command == "" {
		return nil, errors.Wrapf(mcp.ErrMalformedConfig, "server %q has no command", name)
	}

	server := &mcp.Server{
		Name:    name,
		Command: command,
	}

	if rawArgs, ok := entry["args"].([]any); ok {
		server.Args = make([]string, 0, len(rawArgs))
		for _, raw := range rawArgs {
			arg, ok := raw.(string)
			if !ok {
				return nil, errors.Wrapf(mcp.ErrMalformedConfig, "server %q has a non-string arg", name)
			}
			server.Args = append(server.Args, arg)
		}
	}

	if rawEnv, ok := entry["env"].(map[string]any); ok {
		server.Env = make(map[string]string, len(rawEnv))
		for k, raw := range rawEnv {
			v, ok := raw.(string)
			if !ok {
				return nil, errors.Wrapf(mcp.ErrMalformedConfig, "server %q env %q is not a string", name, k)
			}
			server.Env[k] = v
		}
	}

	return server, nil
}

// tableFromServer converts a Server into a TOML-encodable table.
func tableFromServer(s *mcp.Server) map[string]any {
	entry := map[string]any{
		"command": s.Command,
	}
	if len(s.Args) > 0 {
		entry["args"] = s.Args
	}
	if len(s.Env) > 0 {
		entry["env"] = s.Env
	}
	return entry
}
