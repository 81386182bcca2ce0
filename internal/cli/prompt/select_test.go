package prompt

import (
	"strings"
	"testing"

	"github.com/ztripez/mcp-sync/internal/errors"
)

func TestSelectorPick(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		{name: "first option", input: "1\n", want: 0},
		{name: "last option", input: "3\n", want: 2},
		{name: "retries after invalid", input: "x\n0\n2\n", want: 1},
		{name: "empty line aborts", input: "\n", wantErr: ErrAborted},
		{name: "eof aborts", input: "", wantErr: ErrAborted},
	}

	options := []string{"alpha", "beta", "gamma"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			s := NewSelector(strings.NewReader(tt.input), &out)

			got, err := s.Pick("Pick one:", options)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Pick() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Pick() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Pick() = %d, want %d", got, tt.want)
			}
			if !strings.Contains(out.String(), "1. alpha") {
				t.Errorf("options not printed:\n%s", out.String())
			}
		})
	}
}

func TestSelectorPickEmptyOptions(t *testing.T) {
	s := NewSelector(strings.NewReader("1\n"), &strings.Builder{})
	if _, err := s.Pick("Pick:", nil); err == nil {
		t.Error("Pick() with no options should fail")
	}
}
