package adapter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/mcp"
)

func TestFileAdapterLoadMissing(t *testing.T) {
	a := NewFileAdapter(filepath.Join(t.TempDir(), "config.json"), "")

	set, err := a.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(set) != 0 {
		t.Errorf("Load() = %d entries, want 0", len(set))
	}
}

func TestFileAdapterLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewFileAdapter(path, "")
	if _, err := a.Load(); !errors.Is(err, mcp.ErrMalformedConfig) {
		t.Errorf("Load() error = %v, want ErrMalformedConfig", err)
	}
}

func TestFileAdapterWritePreservesSiblings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude_desktop_config.json")
	original := `{
  "globalShortcut": "Cmd+Space",
  "mcpServers": {
    "old": {"command": "old-cmd"}
  },
  "theme": "dark"
}`
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewFileAdapter(path, "mcpServers")
	set := mcp.NewServerSet()
	set["fs"] = &mcp.Server{
		Name:    "fs",
		Command: "npx",
		Args:    []string{"-y", "@modelcontextprotocol/server-filesystem", "/tmp"},
	}
	if err := a.Write(set); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("written file is not valid JSON: %v", err)
	}
	if doc["globalShortcut"] != "Cmd+Space" || doc["theme"] != "dark" {
		t.Errorf("sibling keys not preserved: %v", doc)
	}

	loaded, err := a.Load()
	if err != nil {
		t.Fatalf("Load() after Write error = %v", err)
	}
	if got := loaded.Names(); !reflect.DeepEqual(got, []string{"fs"}) {
		t.Errorf("names after write = %v, want [fs]", got)
	}
	if !loaded["fs"].Equal(set["fs"]) {
		t.Errorf("round-trip entry mismatch: %+v", loaded["fs"])
	}
}

func TestFileAdapterWriteCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.json")
	a := NewFileAdapter(path, "mcpServers")

	set := mcp.NewServerSet()
	set["git"] = &mcp.Server{Name: "git", Command: "uvx", Args: []string{"mcp-server-git"}}
	if err := a.Write(set); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	loaded, err := a.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded["git"].Equal(set["git"]) {
		t.Errorf("loaded entry mismatch: %+v", loaded["git"])
	}
}

func TestFileAdapterDottedKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	original := `{"mcp": {"servers": {"a": {"command": "a-cmd"}}, "enabled": true}}`
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewFileAdapter(path, "mcp.servers")
	set, err := a.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := set["a"]; !ok {
		t.Fatalf("dotted key entry not loaded: %v", set.Names())
	}

	set["b"] = &mcp.Server{Name: "b", Command: "b-cmd"}
	if err := a.Write(set); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc["mcp"]["enabled"] != true {
		t.Errorf("nested sibling not preserved: %v", doc)
	}
}

func TestFileAdapterPreservesUnknownServerFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	original := `{"mcpServers": {"db": {"command": "pg-mcp", "disabled": true, "timeout": 30}}}`
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewFileAdapter(path, "mcpServers")
	set, err := a.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := a.Write(set); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]map[string]map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	entry := doc["mcpServers"]["db"]
	if entry["disabled"] != true {
		t.Errorf("unknown field dropped on round-trip: %v", entry)
	}
}
