package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/mcp"
	"github.com/ztripez/mcp-sync/internal/scope"
)

var (
	serverAddEnv      []string
	serverAddScope    string
	serverAddForce    bool
	serverRemoveScope string
)

func init() {
	serverAddCmd.Flags().StringSliceVar(&serverAddEnv, "env", nil,
		"environment variables in KEY=VALUE format (repeatable)")
	serverAddCmd.Flags().StringVar(&serverAddScope, "scope", scope.Global,
		"config scope: global, project")
	serverAddCmd.Flags().BoolVarP(&serverAddForce, "force", "f", false,
		"overwrite if the server already exists")
	serverRemoveCmd.Flags().StringVar(&serverRemoveScope, "scope", scope.Global,
		"config scope: global, project")

	serverCmd.AddCommand(serverAddCmd)
	serverCmd.AddCommand(serverRemoveCmd)
	serverCmd.AddCommand(serverListCmd)
	rootCmd.AddCommand(serverCmd)
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage servers in the source of truth",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var serverAddCmd = &cobra.Command{
	Use:   "add <name> <command> [args...]",
	Short: "Add a server definition",
	Example: `  mcp-sync server add filesystem npx -y @modelcontextprotocol/server-filesystem /home
  mcp-sync server add github npx -y @modelcontextprotocol/server-github --env GITHUB_TOKEN=ghp_xxx
  mcp-sync server add db ./db-mcp --scope project`,
	Args: cobra.MinimumNArgs(2),
	RunE: runServerAdd,
}

func runServerAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	env, err := parseEnvFlags(serverAddEnv)
	if err != nil {
		return err
	}

	server := &mcp.Server{
		Name:    name,
		Command: args[1],
		Args:    args[2:],
		Env:     env,
	}

	a, err := buildApp()
	if err != nil {
		return err
	}
	if err := a.store.AddServer(serverAddScope, server, serverAddForce); err != nil {
		if errors.Is(err, scope.ErrServerExists) {
			return errors.NewUserError(err, "Use --force to overwrite")
		}
		return errors.NewConfigError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %q to the %s config. Run 'mcp-sync sync' to apply.\n",
		name, serverAddScope)
	return nil
}

var serverRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a server definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runServerRemove,
}

func runServerRemove(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	if err := a.store.RemoveServer(serverRemoveScope, args[0]); err != nil {
		if errors.Is(err, scope.ErrServerNotFound) {
			return errors.NewUserError(err, "Run 'mcp-sync server list' to see defined servers")
		}
		return errors.NewConfigError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from the %s config. Run 'mcp-sync sync' to apply.\n",
		args[0], serverRemoveScope)
	return nil
}

var serverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List servers in the source of truth",
	Args:  cobra.NoArgs,
	RunE:  runServerList,
}

func runServerList(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	global, err := a.store.LoadGlobal()
	if err != nil {
		return errors.NewConfigError(err)
	}
	project, err := a.store.LoadProject()
	if err != nil {
		return errors.NewConfigError(err)
	}

	out := cmd.OutOrStdout()
	boldColor.Fprintln(out, "Global servers:")
	printServerSet(cmd, global)

	if a.store.HasProject() {
		boldColor.Fprintln(out, "\nProject servers (override global):")
		printServerSet(cmd, project)
	}
	return nil
}

// parseEnvFlags parses repeated KEY=VALUE flags into a map.
func parseEnvFlags(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			return nil, errors.NewUserError(
				errors.Newf("invalid --env format %q", entry), "Expected KEY=VALUE")
		}
		env[key] = value
	}
	return env, nil
}
