// Package backup protects mutating config writes with sibling file
// snapshots.
//
// Before a file-backed location is written, [Manager.Snapshot] copies its
// current bytes to <file>.mcp-sync.bak and records a SHA256 hash. If the
// write fails, [Manager.Restore] verifies the hash and puts the original
// bytes and permissions back; if the write succeeds, the backup is kept as
// an on-disk safety copy.
//
// Command-backed locations get no backups: their failures are inherently
// partial and there is no file to restore.
package backup
