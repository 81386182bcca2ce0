package location

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	state, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}

	// Missing record comes back as (nil, false)
	names, ok := state.Managed("/some/config.json")
	if ok || names != nil {
		t.Errorf("Managed() = %v, %v; want nil, false", names, ok)
	}

	state.SetManaged("/some/config.json", []string{"zeta", "alpha"})
	if err := state.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := LoadState(path)
	if err != nil {
		t.Fatal(err)
	}

	names, ok = reloaded.Managed("/some/config.json")
	if !ok {
		t.Fatal("expected record after save")
	}
	if !reflect.DeepEqual(names, []string{"alpha", "zeta"}) {
		t.Errorf("Managed() = %v, want sorted names", names)
	}
}

func TestStateEmptyRecordDistinctFromNoRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	state, err := LoadState(path)
	if err != nil {
		t.Fatal(err)
	}

	state.SetManaged("/cfg.json", nil)

	names, ok := state.Managed("/cfg.json")
	if !ok {
		t.Error("empty record should still report ok=true")
	}
	if len(names) != 0 {
		t.Errorf("names = %v, want empty", names)
	}
}

func TestStateForget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	state, err := LoadState(path)
	if err != nil {
		t.Fatal(err)
	}

	state.SetManaged("/cfg.json", []string{"fs"})
	state.Forget("/cfg.json")

	if _, ok := state.Managed("/cfg.json"); ok {
		t.Error("expected record to be forgotten")
	}
}
