package adapter

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/mcp"
)

func TestTOMLAdapterLoadMissing(t *testing.T) {
	a := NewTOMLAdapter(filepath.Join(t.TempDir(), "settings.toml"), "mcp_servers")

	set, err := a.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(set) != 0 {
		t.Errorf("Load() = %d entries, want 0", len(set))
	}
}

func TestTOMLAdapterLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := `
model = "gemini-pro"

[mcp_servers.fs]
command = "npx"
args = ["-y", "@modelcontextprotocol/server-filesystem", "/tmp"]

[mcp_servers.fs.env]
DEBUG = "1"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewTOMLAdapter(path, "mcp_servers")
	set, err := a.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := &mcp.Server{
		Name:    "fs",
		Command: "npx",
		Args:    []string{"-y", "@modelcontextprotocol/server-filesystem", "/tmp"},
		Env:     map[string]string{"DEBUG": "1"},
	}
	if !set["fs"].Equal(want) {
		t.Errorf("loaded entry = %+v, want %+v", set["fs"], want)
	}
}

func TestTOMLAdapterWritePreservesSiblings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := `
model = "gemini-pro"
auto_save = true

[mcp_servers.old]
command = "old-cmd"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewTOMLAdapter(path, "mcp_servers")
	set := mcp.NewServerSet()
	set["git"] = &mcp.Server{Name: "git", Command: "uvx", Args: []string{"mcp-server-git"}}
	if err := a.Write(set); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, `model = 'gemini-pro'`) && !strings.Contains(text, `model = "gemini-pro"`) {
		t.Errorf("sibling key dropped:\n%s", text)
	}
	if strings.Contains(text, "old-cmd") {
		t.Errorf("replaced entry still present:\n%s", text)
	}

	loaded, err := a.Load()
	if err != nil {
		t.Fatalf("Load() after Write error = %v", err)
	}
	if got := loaded.Names(); !reflect.DeepEqual(got, []string{"git"}) {
		t.Errorf("names after write = %v, want [git]", got)
	}
}

func TestTOMLAdapterWriteCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gemini", "settings.toml")
	a := NewTOMLAdapter(path, "mcp_servers")

	set := mcp.NewServerSet()
	set["fs"] = &mcp.Server{
		Name:    "fs",
		Command: "npx",
		Env:     map[string]string{"ROOT": "/data"},
	}
	if err := a.Write(set); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	loaded, err := a.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded["fs"].Equal(set["fs"]) {
		t.Errorf("round-trip mismatch: %+v", loaded["fs"])
	}
}

func TestTOMLAdapterMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("[broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewTOMLAdapter(path, "mcp_servers")
	if _, err := a.Load(); !errors.Is(err, mcp.ErrMalformedConfig) {
		t.Errorf("Load() error = %v, want ErrMalformedConfig", err)
	}
}

func TestTOMLAdapterMissingCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := `
[mcp_servers.bad]
args = ["x"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewTOMLAdapter(path, "mcp_servers")
	if _, err := a.Load(); !errors.Is(err, mcp.ErrMalformedConfig) {
		t.Errorf("Load() error = %v, want ErrMalformedConfig", err)
	}
}
