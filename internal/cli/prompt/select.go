// Package prompt implements the interactive choices the CLI occasionally
// needs, with a plain numbered fallback for non-TTY sessions.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/ztripez/mcp-sync/internal/errors"
)

// ErrAborted indicates the user cancelled the selection.
var ErrAborted = errors.New("selection aborted")

// Selector asks the user to pick one option by number. Reader and writer
// are injectable for tests.
type Selector struct {
	in  *bufio.Reader
	out io.Writer
}

// NewSelector creates a Selector over the given streams.
func NewSelector(in io.Reader, out io.Writer) *Selector {
	return &Selector{in: bufio.NewReader(in), out: out}
}

// Pick prints the prompt and the numbered options, then reads choices until
// a valid number arrives. Returns the selected index. An empty line or EOF
// aborts.
func (s *Selector) Pick(promptText string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("nothing to select from")
	}

	fmt.Fprintln(s.out, promptText)
	for i, opt := range options {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, opt)
	}

	for {
		fmt.Fprintf(s.out, "Choose (1-%d): ", len(options))
		line, err := s.in.ReadString('\n')
		if err != nil && line == "" {
			return 0, ErrAborted
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return 0, ErrAborted
		}

		n, convErr := strconv.Atoi(line)
		if convErr == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintf(s.out, "Invalid choice %q.\n", line)
		if err != nil {
			return 0, ErrAborted
		}
	}
}

// FuzzySelect opens a fuzzy finder over the options with an optional
// preview per index. Returns ErrAborted when the user quits.
func FuzzySelect(options []string, preview func(i int) string) (int, error) {
	finderOpts := []fuzzyfinder.Option{}
	if preview != nil {
		finderOpts = append(finderOpts, fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return preview(i)
		}))
	}

	idx, err := fuzzyfinder.Find(
		options,
		func(i int) string { return options[i] },
		finderOpts...,
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return 0, ErrAborted
		}
		return 0, errors.Wrap(err, "interactive selection failed")
	}
	return idx, nil
}
