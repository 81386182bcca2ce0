package mcp

import (
	"encoding/json"
	"sort"
)

// DefaultServersKey is the top-level JSON key most clients use for their
// MCP server map.
const DefaultServersKey = "mcpServers"

// Server is a named executable launch specification consumed by an AI tool.
// It is an immutable value: edits replace the whole entry, never a single
// field.
type Server struct {
	// Name is the server's unique identifier within a scope.
	// It is the map key in configuration files, never a JSON field.
	Name string `json:"-"`

	// Command is the executable used to launch the server. Required.
	Command string `json:"command"`

	// Args are command-line arguments passed to Command, in order.
	Args []string `json:"args,omitempty"`

	// Env contains environment variables passed to the server process.
	Env map[string]string `json:"env,omitempty"`

	// unknownFields stores JSON fields not explicitly defined in this struct
	// (transport, url, disabled, ...). They round-trip untouched so that
	// syncing never strips a tool-specific extension.
	unknownFields map[string]json.RawMessage
}

// Equal reports structural equality of command, args and env.
// Nil and empty args/env compare equal. Unknown fields are ignored:
// two entries that launch the same process are the same entry.
func (s *Server) Equal(o *Server) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Command != o.Command {
		return false
	}
	if len(s.Args) != len(o.Args) {
		return false
	}
	for i := range s.Args {
		if s.Args[i] != o.Args[i] {
			return false
		}
	}
	if len(s.Env) != len(o.Env) {
		return false
	}
	for k, v := range s.Env {
		if ov, ok := o.Env[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the server.
func (s *Server) Clone() *Server {
	if s == nil {
		return nil
	}
	out := &Server{
		Name:    s.Name,
		Command: s.Command,
	}
	if s.Args != nil {
		out.Args = make([]string, len(s.Args))
		copy(out.Args, s.Args)
	}
	if s.Env != nil {
		out.Env = make(map[string]string, len(s.Env))
		for k, v := range s.Env {
			out.Env[k] = v
		}
	}
	if s.unknownFields != nil {
		out.unknownFields = make(map[string]json.RawMessage, len(s.unknownFields))
		for k, v := range s.unknownFields {
			raw := make(json.RawMessage, len(v))
			copy(raw, v)
			out.unknownFields[k] = raw
		}
	}
	return out
}

// MarshalJSON implements json.Marshaler to include unknown fields in output.
func (s *Server) MarshalJSON() ([]byte, error) {
	// Build a map with all fields
	result := make(map[string]any)

	// Copy unknown fields first (so known fields take precedence)
	for k, v := range s.unknownFields {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, err
		}
		result[k] = val
	}

	result["command"] = s.Command
	if len(s.Args) > 0 {
		result["args"] = s.Args
	}
	if len(s.Env) > 0 {
		result["env"] = s.Env
	}

	return json.Marshal(result)
}

// UnmarshalJSON implements json.Unmarshaler to capture unknown fields.
func (s *Server) UnmarshalJSON(data []byte) error {
	// First, unmarshal into a generic map to capture all fields
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["command"]; ok {
		if err := json.Unmarshal(v, &s.Command); err != nil {
			return err
		}
		delete(raw, "command")
	}
	if v, ok := raw["args"]; ok {
		if err := json.Unmarshal(v, &s.Args); err != nil {
			return err
		}
		delete(raw, "args")
	}
	if v, ok := raw["env"]; ok {
		if err := json.Unmarshal(v, &s.Env); err != nil {
			return err
		}
		delete(raw, "env")
	}

	// Store remaining fields as unknown
	if len(raw) > 0 {
		s.unknownFields = raw
	}

	return nil
}

// ServerSet maps server names to their entries. Insertion order is
// irrelevant for equality; serialization always sorts names.
type ServerSet map[string]*Server

// NewServerSet creates an empty ServerSet.
func NewServerSet() ServerSet {
	return make(ServerSet)
}

// Names returns the set's names in sorted order.
func (set ServerSet) Names() []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the set.
func (set ServerSet) Clone() ServerSet {
	out := make(ServerSet, len(set))
	for name, server := range set {
		out[name] = server.Clone()
	}
	return out
}

// Overlay computes the source-of-truth set from the global and project
// tiers. For each name present in both, the project entry wins entirely;
// there is no field-level merge. This is the one fixed precedence rule.
func Overlay(global, project ServerSet) ServerSet {
	out := make(ServerSet, len(global)+len(project))
	for name, server := range global {
		s := server.Clone()
		s.Name = name
		out[name] = s
	}
	for name, server := range project {
		s := server.Clone()
		s.Name = name
		out[name] = s
	}
	return out
}
