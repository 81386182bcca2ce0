// Package errors provides error handling conventions for mcp-sync.
//
// It re-exports the cockroachdb/errors constructors used throughout the
// codebase and defines an ExitError type carrying a process exit code and
// an optional suggestion printed to the user.
//
// Sentinel errors for specific failure conditions live in the packages that
// produce them (for example adapter.ErrCommandFailed) and are matched with
// [Is]:
//
//	if errors.Is(err, adapter.ErrCommandFailed) {
//	    // partial apply, keep going
//	}
package errors
