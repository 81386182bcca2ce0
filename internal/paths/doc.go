// Package paths resolves the file system locations of mcp-sync's own
// configuration: the global server config, the location registry, the sync
// state, and user client definition overrides. All of them live under a
// single XDG config directory that can be overridden via MCP_SYNC_CONFIG_DIR.
//
// Path templates coming from client definitions (which may contain ~, $VAR
// or %VAR% references) are expanded with [ExpandTemplate].
package paths
