package adapter

import (
	"os"
	"path/filepath"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/mcp"
	"github.com/ztripez/mcp-sync/pkg/fileutil"
)

// FileAdapter reads and writes a JSON config file through the document
// model, preserving every key that is not the servers key.
type FileAdapter struct {
	path    string
	keyPath []string
}

// NewFileAdapter creates a JSON file adapter for the given path and
// (possibly dotted) servers key.
func NewFileAdapter(path, serversKey string) *FileAdapter {
	return &FileAdapter{
		path:    path,
		keyPath: mcp.ParseKeyPath(serversKey),
	}
}

// Path returns the config file path.
func (a *FileAdapter) Path() string {
	return a.path
}

// Load returns the file's current server set.
// A missing file yields an empty set.
func (a *FileAdapter) Load() (mcp.ServerSet, error) {
	doc, err := a.loadDocument()
	if err != nil {
		return nil, err
	}
	return doc.Servers, nil
}

// Write replaces the file's server set atomically. The current document is
// re-read first so unrelated keys written since Load survive.
func (a *FileAdapter) Write(set mcp.ServerSet) error {
	doc, err := a.loadDocument()
	if err != nil {
		return err
	}

	doc.SetServers(set)
	data, err := doc.Encode()
	if err != nil {
		return err
	}

	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(ErrIO, "creating directory %s: %v", dir, err)
	}
	if err := fileutil.AtomicWriteFile(a.path, data, 0o644); err != nil {
		return errors.Wrapf(ErrIO, "writing %s: %v", a.path, err)
	}
	return nil
}

// loadDocument parses the file into a Document, treating a missing file as
// an empty document.
func (a *FileAdapter) loadDocument() (*mcp.Document, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return mcp.ParseDocument(nil, a.keyPath...)
		}
		return nil, errors.Wrapf(ErrIO, "reading %s: %v", a.path, err)
	}
	if len(data) > fileutil.MaxFileSize {
		return nil, errors.Wrapf(ErrIO, "reading %s: %v", a.path, fileutil.ErrFileTooLarge)
	}
	return mcp.ParseDocument(data, a.keyPath...)
}
