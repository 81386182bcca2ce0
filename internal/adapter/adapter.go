// Package adapter translates between the canonical server set and a tool's
// native configuration surface.
//
// Two families exist: file-backed adapters (JSON and TOML) that rewrite a
// config file in one atomic operation while preserving unrelated keys, and
// the command-backed adapter that drives an external client binary with
// per-entry list/add/remove invocations. Command-backed application is
// inherently non-atomic; every entry reports its own outcome.
package adapter

import (
	"strings"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/mcp"
	"github.com/ztripez/mcp-sync/internal/merge"
)

// Sentinel errors for adapter failures.
var (
	// ErrIO indicates a config file could not be read or written
	// (permissions, missing parent, disk errors).
	ErrIO = errors.New("config file I/O error")

	// ErrCommandFailed indicates an external client command exited nonzero
	// or produced unparseable output.
	ErrCommandFailed = errors.New("client command failed")

	// ErrLocationNotFound indicates a registered location's path no longer
	// exists.
	ErrLocationNotFound = errors.New("config location not found")
)

// Adapter reads a location's current server set.
type Adapter interface {
	// Load returns the location's current entries. A missing file yields an
	// empty set, not an error.
	Load() (mcp.ServerSet, error)
}

// FileWriter is implemented by file-backed adapters that can replace the
// whole server set in one atomic write.
type FileWriter interface {
	Adapter

	// Path returns the config file path.
	Path() string

	// Write replaces the location's server set, preserving every unrelated
	// key in the file.
	Write(set mcp.ServerSet) error
}

// DiffApplier is implemented by command-backed adapters that replay a merge
// diff as individual side-effecting calls.
type DiffApplier interface {
	Adapter

	// Apply replays the diff entry by entry. Each entry may fail
	// independently; the returned slice holds one result per attempted
	// entry, in deterministic name order.
	Apply(res *merge.Result) []EntryResult
}

// Entry actions reported by DiffApplier.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionRemove = "remove"
)

// EntryResult is the per-entry outcome of a command-backed apply.
type EntryResult struct {
	// Name is the server entry name.
	Name string

	// Action is ActionAdd, ActionUpdate or ActionRemove.
	Action string

	// Err is nil when the entry applied cleanly.
	Err error
}

// splitCommandLine splits a shell-like command line into fields, honoring
// single and double quotes. It is intentionally minimal: no globbing, no
// variable expansion, backslash escapes only inside double quotes and bare
// words.
func splitCommandLine(s string) []string {
	var (
		fields  []string
		current strings.Builder
		inField bool
		quote   byte
	)

	flush := func() {
		if inField {
			fields = append(fields, current.String())
			current.Reset()
			inField = false
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else if c == '\\' && quote == '"' && i+1 < len(s) {
				i++
				current.WriteByte(s[i])
			} else {
				current.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
			inField = true
		case c == '\\' && i+1 < len(s):
			i++
			current.WriteByte(s[i])
			inField = true
		case c == ' ' || c == '\t':
			flush()
		default:
			current.WriteByte(c)
			inField = true
		}
	}
	flush()

	return fields
}

// shellJoin joins fields into a single command line, quoting fields that
// contain whitespace or quotes.
func shellJoin(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		if f == "" || strings.ContainsAny(f, " \t'\"") {
			quoted[i] = `"` + strings.ReplaceAll(strings.ReplaceAll(f, `\`, `\\`), `"`, `\"`) + `"`
		} else {
			quoted[i] = f
		}
	}
	return strings.Join(quoted, " ")
}
