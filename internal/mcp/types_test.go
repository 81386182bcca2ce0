package mcp

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestServerEqual(t *testing.T) {
	base := &Server{
		Name:    "fs",
		Command: "npx",
		Args:    []string{"-y", "pkg"},
		Env:     map[string]string{"DEBUG": "1"},
	}

	tests := []struct {
		name  string
		other *Server
		want  bool
	}{
		{
			name:  "identical",
			other: &Server{Command: "npx", Args: []string{"-y", "pkg"}, Env: map[string]string{"DEBUG": "1"}},
			want:  true,
		},
		{
			name:  "different command",
			other: &Server{Command: "node", Args: []string{"-y", "pkg"}, Env: map[string]string{"DEBUG": "1"}},
			want:  false,
		},
		{
			name:  "different arg order",
			other: &Server{Command: "npx", Args: []string{"pkg", "-y"}, Env: map[string]string{"DEBUG": "1"}},
			want:  false,
		},
		{
			name:  "different env value",
			other: &Server{Command: "npx", Args: []string{"-y", "pkg"}, Env: map[string]string{"DEBUG": "2"}},
			want:  false,
		},
		{
			name:  "missing env",
			other: &Server{Command: "npx", Args: []string{"-y", "pkg"}},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Equal(tt.other); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServerEqualNilVsEmpty(t *testing.T) {
	a := &Server{Command: "npx"}
	b := &Server{Command: "npx", Args: []string{}, Env: map[string]string{}}

	if !a.Equal(b) {
		t.Error("nil and empty args/env should compare equal")
	}
}

func TestServerUnknownFieldsRoundTrip(t *testing.T) {
	input := `{"command":"npx","args":["-y"],"transport":"stdio","disabled":true}`

	var server Server
	if err := json.Unmarshal([]byte(input), &server); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if server.Command != "npx" {
		t.Errorf("Command = %q, want %q", server.Command, "npx")
	}

	out, err := json.Marshal(&server)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["transport"] != "stdio" {
		t.Errorf("transport field lost: %v", decoded)
	}
	if decoded["disabled"] != true {
		t.Errorf("disabled field lost: %v", decoded)
	}
}

func TestServerClone(t *testing.T) {
	original := &Server{
		Name:    "fs",
		Command: "npx",
		Args:    []string{"-y"},
		Env:     map[string]string{"A": "1"},
	}

	clone := original.Clone()
	clone.Args[0] = "changed"
	clone.Env["A"] = "2"

	if original.Args[0] != "-y" {
		t.Error("Clone() shares args slice")
	}
	if original.Env["A"] != "1" {
		t.Error("Clone() shares env map")
	}
}

func TestServerSetNames(t *testing.T) {
	set := ServerSet{
		"zeta":  {Name: "zeta", Command: "z"},
		"alpha": {Name: "alpha", Command: "a"},
		"mid":   {Name: "mid", Command: "m"},
	}

	want := []string{"alpha", "mid", "zeta"}
	if got := set.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestOverlayProjectWins(t *testing.T) {
	global := ServerSet{
		"a":      {Name: "a", Command: "global-a"},
		"shared": {Name: "shared", Command: "global", Args: []string{"g"}},
	}
	project := ServerSet{
		"shared": {Name: "shared", Command: "project"},
		"b":      {Name: "b", Command: "project-b"},
	}

	merged := Overlay(global, project)

	if len(merged) != 3 {
		t.Fatalf("len = %d, want 3", len(merged))
	}
	if merged["shared"].Command != "project" {
		t.Errorf("shared.Command = %q, project must win", merged["shared"].Command)
	}
	// Project wins wholesale, no field-level merge
	if len(merged["shared"].Args) != 0 {
		t.Errorf("shared.Args = %v, want none (wholesale replacement)", merged["shared"].Args)
	}
	if merged["a"].Command != "global-a" {
		t.Errorf("a.Command = %q", merged["a"].Command)
	}
	if merged["b"].Command != "project-b" {
		t.Errorf("b.Command = %q", merged["b"].Command)
	}
}

func TestOverlayIndependentOfLoadOrder(t *testing.T) {
	global := ServerSet{"a": {Name: "a", Command: "X"}}
	project := ServerSet{"a": {Name: "a", Command: "Y"}}

	first := Overlay(global, project)
	second := Overlay(global.Clone(), project.Clone())

	if first["a"].Command != "Y" || second["a"].Command != "Y" {
		t.Error("project entry must always win regardless of load order")
	}
}

func TestOverlayDoesNotAliasInputs(t *testing.T) {
	global := ServerSet{"a": {Name: "a", Command: "X", Env: map[string]string{"K": "1"}}}

	merged := Overlay(global, nil)
	merged["a"].Env["K"] = "2"

	if global["a"].Env["K"] != "1" {
		t.Error("Overlay must deep-copy entries")
	}
}
