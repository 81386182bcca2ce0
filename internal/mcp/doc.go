// Package mcp defines the canonical model for MCP server configurations:
// the Server entry (command, args, env), the ServerSet keyed by name, and
// the Document wrapper that parses a tool's native JSON while preserving
// every key it does not recognize.
//
// Unknown JSON fields, both inside individual server entries and around
// the servers key, survive a parse/encode round trip, so syncing a file
// never destroys tool-specific settings living next to the server map.
package mcp
