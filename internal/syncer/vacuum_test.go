package syncer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ztripez/mcp-sync/internal/location"
)

func writeTargetConfig(t *testing.T, path, content string) location.Location {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return location.Location{Path: path, Name: stemName(path)}
}

func stemName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

func TestVacuumImportsDiscoveredServers(t *testing.T) {
	f := newFixture(t)
	locA := writeTargetConfig(t, filepath.Join(f.dir, "tool-a.json"),
		`{"mcpServers": {"fs": {"command": "npx", "args": ["server-fs"]}}}`)
	locB := writeTargetConfig(t, filepath.Join(f.dir, "tool-b.json"),
		`{"mcpServers": {"git": {"command": "uvx", "args": ["mcp-server-git"]}}}`)

	result, err := f.syncer.Vacuum([]location.Location{locA, locB}, KeepFirst, false)
	if err != nil {
		t.Fatalf("Vacuum() error = %v", err)
	}

	want := map[string]string{"fs": "tool-a", "git": "tool-b"}
	if !reflect.DeepEqual(result.Imported, want) {
		t.Errorf("Imported = %v, want %v", result.Imported, want)
	}

	global, err := f.store.LoadGlobal()
	if err != nil {
		t.Fatal(err)
	}
	if got := global.Names(); !reflect.DeepEqual(got, []string{"fs", "git"}) {
		t.Errorf("global after vacuum = %v", got)
	}
}

func TestVacuumConflictResolution(t *testing.T) {
	f := newFixture(t)
	locA := writeTargetConfig(t, filepath.Join(f.dir, "tool-a.json"),
		`{"mcpServers": {"fs": {"command": "npx", "args": ["server-fs", "/a"]}}}`)
	locB := writeTargetConfig(t, filepath.Join(f.dir, "tool-b.json"),
		`{"mcpServers": {"fs": {"command": "npx", "args": ["server-fs", "/b"]}}}`)

	result, err := f.syncer.Vacuum([]location.Location{locA, locB}, KeepLast, false)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Conflicts) != 1 {
		t.Fatalf("Conflicts = %+v, want 1", result.Conflicts)
	}
	c := result.Conflicts[0]
	if c.Name != "fs" || c.ChosenSource != "tool-b" || c.RejectedSource != "tool-a" {
		t.Errorf("conflict = %+v", c)
	}

	global, err := f.store.LoadGlobal()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(global["fs"].Args, []string{"server-fs", "/b"}) {
		t.Errorf("global value = %+v, want tool-b's", global["fs"])
	}
}

func TestVacuumIdenticalValuesAreNotConflicts(t *testing.T) {
	f := newFixture(t)
	same := `{"mcpServers": {"fs": {"command": "npx"}}}`
	locA := writeTargetConfig(t, filepath.Join(f.dir, "tool-a.json"), same)
	locB := writeTargetConfig(t, filepath.Join(f.dir, "tool-b.json"), same)

	result, err := f.syncer.Vacuum([]location.Location{locA, locB}, KeepFirst, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Conflicts) != 0 {
		t.Errorf("Conflicts = %+v, want none", result.Conflicts)
	}
}

func TestVacuumSkipExisting(t *testing.T) {
	f := newFixture(t)
	f.addGlobal(t, "fs", "my-own-fs")
	loc := writeTargetConfig(t, filepath.Join(f.dir, "tool-a.json"),
		`{"mcpServers": {"fs": {"command": "npx"}}}`)

	result, err := f.syncer.Vacuum([]location.Location{loc}, KeepFirst, true)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(result.Skipped, []string{"fs"}) {
		t.Errorf("Skipped = %v, want [fs]", result.Skipped)
	}

	global, err := f.store.LoadGlobal()
	if err != nil {
		t.Fatal(err)
	}
	if global["fs"].Command != "my-own-fs" {
		t.Errorf("existing global entry overwritten: %+v", global["fs"])
	}
}

func TestVacuumSkipsProjectConfig(t *testing.T) {
	f := newFixture(t)
	loc := writeTargetConfig(t, filepath.Join(f.dir, ".mcp.json"),
		`{"mcpServers": {"p": {"command": "p-cmd"}}}`)

	result, err := f.syncer.Vacuum([]location.Location{loc}, KeepFirst, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Imported) != 0 {
		t.Errorf("project entries imported: %v", result.Imported)
	}
}

func TestVacuumReportsUnreadableLocations(t *testing.T) {
	f := newFixture(t)
	loc := writeTargetConfig(t, filepath.Join(f.dir, "broken.json"), "{not json")

	result, err := f.syncer.Vacuum([]location.Location{loc}, KeepFirst, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := result.Errors[loc.Path]; !ok {
		t.Errorf("Errors = %v, want entry for %s", result.Errors, loc.Path)
	}
}

func TestStatus(t *testing.T) {
	f := newFixture(t)
	f.addGlobal(t, "g", "g-cmd")
	f.addProject(t, "p", "p-cmd")
	loc := writeTargetConfig(t, f.target, `{"mcpServers": {"x": {"command": "x-cmd"}}}`)

	st, err := f.syncer.Status([]location.Location{loc})
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	if got := st.Global.Names(); !reflect.DeepEqual(got, []string{"g"}) {
		t.Errorf("Global = %v", got)
	}
	if got := st.Project.Names(); !reflect.DeepEqual(got, []string{"p"}) {
		t.Errorf("Project = %v", got)
	}
	if len(st.Locations) != 1 || !reflect.DeepEqual(st.Locations[0].Servers.Names(), []string{"x"}) {
		t.Errorf("Locations = %+v", st.Locations)
	}
}
