// Package logging provides structured logging for mcp-sync built on log/slog.
//
// It offers a TTY-optimized text handler with colorized output, a JSON
// handler for machine consumption, and a multi-handler used when logging to
// both the terminal and a file. Attribute keys that look like secrets
// (tokens, keys, passwords) are masked in text output.
//
// Verbosity flags map to levels via [LevelFromVerbosity], and tests get a
// logger wired to testing.T with [ForTest].
package logging
