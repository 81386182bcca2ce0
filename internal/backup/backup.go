package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
)

// DefaultSuffix is appended to the original file name to form the sibling
// backup path.
const DefaultSuffix = ".mcp-sync.bak"

// Sentinel errors for backup operations.
var (
	// ErrBackupCorrupted indicates backup file integrity verification failed.
	// This occurs when the backup's SHA256 hash no longer matches the snapshot.
	ErrBackupCorrupted = errors.New("backup corrupted")
)

// Snapshot describes a single pre-write backup of a config file.
type Snapshot struct {
	// OriginalPath is the file the snapshot protects.
	OriginalPath string

	// BackupPath is the sibling file holding the original bytes.
	// Empty when the original did not exist.
	BackupPath string

	// SHA256 is the hex-encoded hash of the backed up bytes.
	SHA256 string

	// Mode is the original file's permission bits.
	Mode fs.FileMode

	// Existed reports whether the original file was present.
	// Restoring a snapshot of a missing file deletes whatever the failed
	// write created.
	Existed bool
}

// Manager creates and restores sibling file snapshots around mutating
// writes. The backup is guaranteed to exist before the write begins and is
// retained after a confirmed-successful write as an on-disk safety copy.
type Manager struct {
	suffix string
}

// Option configures a Manager.
type Option func(*Manager)

// WithSuffix sets the backup file suffix.
func WithSuffix(suffix string) Option {
	return func(m *Manager) {
		if suffix != "" {
			m.suffix = suffix
		}
	}
}

// NewManager creates a backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		suffix: DefaultSuffix,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot copies the file's current bytes to its sibling backup path.
// A missing original yields a snapshot with Existed=false and no backup
// file; restoring it removes whatever a failed write left behind.
func (m *Manager) Snapshot(path string) (*Snapshot, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Snapshot{OriginalPath: path}, nil
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}

	backupPath := path + m.suffix
	hash, err := copyFile(path, backupPath, info.Mode())
	if err != nil {
		return nil, errors.Wrapf(err, "backing up %s", path)
	}

	return &Snapshot{
		OriginalPath: path,
		BackupPath:   backupPath,
		SHA256:       hash,
		Mode:         info.Mode(),
		Existed:      true,
	}, nil
}

// Restore puts the original file back into its pre-snapshot state.
// Backup integrity is verified against the recorded hash before any bytes
// are written; a mismatch returns ErrBackupCorrupted and leaves the target
// untouched.
func (m *Manager) Restore(snap *Snapshot) error {
	if snap == nil {
		return errors.New("snapshot is required")
	}

	if !snap.Existed {
		// The original was absent; remove whatever the failed write created.
		if err := os.Remove(snap.OriginalPath); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "removing %s", snap.OriginalPath)
		}
		return nil
	}

	hash, err := hashFile(snap.BackupPath)
	if err != nil {
		return errors.Wrapf(err, "reading backup %s", snap.BackupPath)
	}
	if hash != snap.SHA256 {
		return errors.Wrapf(ErrBackupCorrupted, "backup %s hash mismatch", snap.BackupPath)
	}

	if _, err := copyFile(snap.BackupPath, snap.OriginalPath, snap.Mode); err != nil {
		return errors.Wrapf(err, "restoring %s", snap.OriginalPath)
	}

	return nil
}

// hashFile computes the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies src to dst with the given mode, returning the SHA256 hash
// of the copied bytes.
func copyFile(src, dst string, mode fs.FileMode) (string, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "creating destination file")
	}

	// Compute hash while copying
	h := sha256.New()
	w := io.MultiWriter(dstFile, h)

	if _, err := io.Copy(w, srcFile); err != nil {
		dstFile.Close()
		return "", errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return "", errors.Wrap(err, "closing destination file")
	}

	if err := os.Chmod(dst, mode); err != nil {
		return "", errors.Wrap(err, "setting permissions")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
