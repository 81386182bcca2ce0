package mcp

import (
	"encoding/json"
	"strings"

	"github.com/ztripez/mcp-sync/internal/errors"
)

// ErrMalformedConfig indicates a config document that is not valid JSON or
// whose servers key exists but is not an object of objects.
var ErrMalformedConfig = errors.New("malformed config")

// Document is the parsed form of a tool config file: the recognized server
// set plus an opaque remainder of every other top-level key, preserved
// through round trips. The servers key may be nested (e.g. "mcp.servers"),
// in which case sibling keys at every level are preserved too.
type Document struct {
	// Servers is the recognized server set at the document's key path.
	Servers ServerSet

	keyPath []string
	raw     map[string]json.RawMessage
}

// ParseKeyPath splits a dotted servers key ("mcp.servers") into path
// segments. A plain key yields a single segment.
func ParseKeyPath(key string) []string {
	if key == "" {
		key = DefaultServersKey
	}
	return strings.Split(key, ".")
}

// ParseDocument parses raw JSON bytes into a Document for the given servers
// key path. Empty or whitespace-only input yields an empty document.
//
// Returns ErrMalformedConfig if the input is not a JSON object, if the
// servers key exists but is not an object of objects, or if an entry has an
// empty command.
func ParseDocument(data []byte, keyPath ...string) (*Document, error) {
	if len(keyPath) == 0 {
		keyPath = []string{DefaultServersKey}
	}

	doc := &Document{
		Servers: NewServerSet(),
		keyPath: keyPath,
		raw:     make(map[string]json.RawMessage),
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(data, &doc.raw); err != nil {
		return nil, errors.Wrapf(ErrMalformedConfig, "parsing config document: %v", err)
	}

	serversRaw, ok, err := getNested(doc.raw, keyPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return doc, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(serversRaw, &entries); err != nil {
		return nil, errors.Wrapf(ErrMalformedConfig, "%q is not an object: %v",
			strings.Join(keyPath, "."), err)
	}

	for name, entryRaw := range entries {
		server := &Server{}
		if err := json.Unmarshal(entryRaw, server); err != nil {
			return nil, errors.Wrapf(ErrMalformedConfig, "server %q is not an object: %v", name, err)
		}
		if server.Command == "" {
			return nil, errors.Wrapf(ErrMalformedConfig, "server %q has no command", name)
		}
		server.Name = name
		doc.Servers[name] = server
	}

	return doc, nil
}

// SetServers replaces the document's server set.
func (d *Document) SetServers(set ServerSet) {
	d.Servers = set
}

// Encode serializes the document back to JSON bytes, reproducing the opaque
// remainder and injecting the current server set at the key path. Output is
// 2-space indented with a trailing newline; top-level keys sort
// alphabetically.
func (d *Document) Encode() ([]byte, error) {
	serversRaw, err := json.Marshal(d.Servers)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling server set")
	}

	out := make(map[string]json.RawMessage, len(d.raw)+1)
	for k, v := range d.raw {
		out[k] = v
	}
	if err := setNested(out, d.keyPath, serversRaw); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling config document")
	}
	return append(data, '\n'), nil
}

// getNested walks the key path through nested JSON objects.
// Returns ok=false when any level along the path is absent.
func getNested(raw map[string]json.RawMessage, path []string) (json.RawMessage, bool, error) {
	value, ok := raw[path[0]]
	if !ok {
		return nil, false, nil
	}
	if len(path) == 1 {
		return value, true, nil
	}

	var child map[string]json.RawMessage
	if err := json.Unmarshal(value, &child); err != nil {
		return nil, false, errors.Wrapf(ErrMalformedConfig, "%q is not an object: %v", path[0], err)
	}
	return getNested(child, path[1:])
}

// setNested writes value at the key path, preserving sibling keys at every
// level and creating intermediate objects as needed.
func setNested(raw map[string]json.RawMessage, path []string, value json.RawMessage) error {
	if len(path) == 1 {
		raw[path[0]] = value
		return nil
	}

	child := make(map[string]json.RawMessage)
	if existing, ok := raw[path[0]]; ok {
		if err := json.Unmarshal(existing, &child); err != nil {
			return errors.Wrapf(ErrMalformedConfig, "%q is not an object: %v", path[0], err)
		}
	}
	if err := setNested(child, path[1:], value); err != nil {
		return err
	}

	data, err := json.Marshal(child)
	if err != nil {
		return errors.Wrapf(err, "marshaling %q", path[0])
	}
	raw[path[0]] = data
	return nil
}
