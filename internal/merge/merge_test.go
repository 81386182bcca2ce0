package merge

import (
	"reflect"
	"testing"

	"github.com/ztripez/mcp-sync/internal/mcp"
)

func set(entries map[string]*mcp.Server) mcp.ServerSet {
	out := mcp.NewServerSet()
	for name, s := range entries {
		s.Name = name
		out[name] = s
	}
	return out
}

func TestComputeEmptyTarget(t *testing.T) {
	source := set(map[string]*mcp.Server{
		"fs":  {Command: "npx", Args: []string{"-y", "pkg"}},
		"git": {Command: "uvx", Args: []string{"mcp-git"}},
	})

	res := Compute(source, mcp.NewServerSet(), nil)

	if got := res.Added.Names(); !reflect.DeepEqual(got, []string{"fs", "git"}) {
		t.Errorf("Added = %v, want all source names", got)
	}
	if len(res.Updated) != 0 || len(res.Removed) != 0 {
		t.Errorf("Updated/Removed not empty: %v / %v", res.Updated, res.Removed)
	}
	if got := res.Desired().Names(); !reflect.DeepEqual(got, []string{"fs", "git"}) {
		t.Errorf("Desired = %v", got)
	}
}

func TestComputeIdempotent(t *testing.T) {
	source := set(map[string]*mcp.Server{
		"fs": {Command: "npx", Args: []string{"-y", "pkg"}},
	})

	first := Compute(source, mcp.NewServerSet(), nil)

	// Second run: target is what the first apply produced, marker recorded.
	second := Compute(source, first.Desired(), source.Names())

	if !second.Empty() {
		t.Errorf("second sync not empty: added=%v updated=%v removed=%v",
			second.Added.Names(), second.Updated, second.Removed.Names())
	}
	if !reflect.DeepEqual(second.Unchanged, []string{"fs"}) {
		t.Errorf("Unchanged = %v, want [fs]", second.Unchanged)
	}
}

func TestComputeSourceWinsAndRecordsConflict(t *testing.T) {
	source := set(map[string]*mcp.Server{
		"fs": {Command: "npx", Args: []string{"-y", "new"}},
	})
	target := set(map[string]*mcp.Server{
		"fs": {Command: "npx", Args: []string{"-y", "old"}},
	})

	res := Compute(source, target, nil)

	change, ok := res.Updated["fs"]
	if !ok {
		t.Fatal("expected fs in Updated")
	}
	if change.New.Args[1] != "new" || change.Old.Args[1] != "old" {
		t.Errorf("Change = old:%v new:%v", change.Old.Args, change.New.Args)
	}

	if len(res.Conflicts) != 1 {
		t.Fatalf("Conflicts len = %d, want 1", len(res.Conflicts))
	}
	c := res.Conflicts[0]
	if c.Name != "fs" || c.Resolution != ResolutionSource {
		t.Errorf("Conflict = %+v", c)
	}
	if res.Desired()["fs"].Args[1] != "new" {
		t.Error("desired set must carry the source value")
	}
}

func TestComputeUnmanagedPreserved(t *testing.T) {
	source := set(map[string]*mcp.Server{
		"fs": {Command: "npx"},
	})
	target := set(map[string]*mcp.Server{
		"custom": {Command: "my-server", Args: []string{"--port", "9000"}},
	})

	tests := []struct {
		name    string
		managed []string
	}{
		{name: "no managed record", managed: nil},
		{name: "record without the name", managed: []string{"fs"}},
		{name: "empty record", managed: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(source, target, tt.managed)

			if len(res.Removed) != 0 {
				t.Errorf("Removed = %v, want none", res.Removed.Names())
			}
			kept, ok := res.Desired()["custom"]
			if !ok {
				t.Fatal("custom entry dropped from desired set")
			}
			if !kept.Equal(target["custom"]) {
				t.Errorf("custom entry changed: %+v", kept)
			}
		})
	}
}

func TestComputeManagedRemoval(t *testing.T) {
	source := set(map[string]*mcp.Server{
		"fs": {Command: "npx"},
	})
	target := set(map[string]*mcp.Server{
		"fs":  {Command: "npx"},
		"old": {Command: "legacy"},
	})

	res := Compute(source, target, []string{"fs", "old"})

	if got := res.Removed.Names(); !reflect.DeepEqual(got, []string{"old"}) {
		t.Errorf("Removed = %v, want [old]", got)
	}
	if _, ok := res.Desired()["old"]; ok {
		t.Error("removed entry still in desired set")
	}
	if !reflect.DeepEqual(res.Unchanged, []string{"fs"}) {
		t.Errorf("Unchanged = %v", res.Unchanged)
	}
}

func TestComputeMixedClassification(t *testing.T) {
	source := set(map[string]*mcp.Server{
		"add":  {Command: "a"},
		"upd":  {Command: "new"},
		"same": {Command: "s"},
	})
	target := set(map[string]*mcp.Server{
		"upd":    {Command: "old"},
		"same":   {Command: "s"},
		"gone":   {Command: "g"},
		"custom": {Command: "c"},
	})

	res := Compute(source, target, []string{"upd", "same", "gone"})

	if got := res.Added.Names(); !reflect.DeepEqual(got, []string{"add"}) {
		t.Errorf("Added = %v", got)
	}
	if _, ok := res.Updated["upd"]; !ok {
		t.Errorf("Updated = %v", res.Updated)
	}
	if got := res.Removed.Names(); !reflect.DeepEqual(got, []string{"gone"}) {
		t.Errorf("Removed = %v", got)
	}
	want := []string{"add", "custom", "same", "upd"}
	if got := res.Desired().Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Desired = %v, want %v", got, want)
	}
}

func TestComputeDesiredDoesNotAliasSource(t *testing.T) {
	source := set(map[string]*mcp.Server{
		"fs": {Command: "npx", Env: map[string]string{"K": "1"}},
	})

	res := Compute(source, mcp.NewServerSet(), nil)
	res.Desired()["fs"].Env["K"] = "2"

	if source["fs"].Env["K"] != "1" {
		t.Error("Compute must not alias source entries")
	}
}

func TestResultEmpty(t *testing.T) {
	source := set(map[string]*mcp.Server{"fs": {Command: "npx"}})
	res := Compute(source, source.Clone(), source.Names())

	if !res.Empty() {
		t.Error("identical sets should produce an empty result")
	}
}
