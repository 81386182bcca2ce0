package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/mcp"
)

func init() {
	rootCmd.AddCommand(templateCmd)
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print a sample server config",
	Long: `Print an example mcpServers config. The same shape works for the
global config and for a project .mcp.json.`,
	Args: cobra.NoArgs,
	RunE: runTemplate,
}

func runTemplate(cmd *cobra.Command, _ []string) error {
	template := map[string]map[string]*mcp.Server{
		mcp.DefaultServersKey: {
			"filesystem": {
				Command: "npx",
				Args:    []string{"-y", "@modelcontextprotocol/server-filesystem", "/path/to/directory"},
			},
			"custom-server": {
				Command: "python",
				Args:    []string{"/path/to/custom/server.py"},
				Env:     map[string]string{"API_KEY": "your-api-key"},
			},
		},
	}

	data, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding template")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "MCP configuration template:")
	fmt.Fprintln(out, string(data))
	return nil
}
