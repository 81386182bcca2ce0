// Package main is the entry point for the mcp-sync CLI.
package main

import (
	"fmt"
	"os"

	"github.com/ztripez/mcp-sync/cmd/mcp-sync/commands"
	"github.com/ztripez/mcp-sync/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "Error:", err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Suggestion != "" {
			fmt.Fprintln(os.Stderr, "Suggestion:", exitErr.Suggestion)
		}
		os.Exit(exitErr.Code)
	}
	os.Exit(errors.ExitUser)
}
