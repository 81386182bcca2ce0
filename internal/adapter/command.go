package adapter

import (
	"context"
	"os/exec"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/mcp"
	"github.com/ztripez/mcp-sync/internal/merge"
)

// Command template keys, matching the client catalog's cli_commands map.
const (
	CmdList   = "list_mcp"
	CmdGet    = "get_mcp"
	CmdAdd    = "add_mcp"
	CmdRemove = "remove_mcp"
)

// DefaultCommandTimeout bounds each external client invocation.
const DefaultCommandTimeout = 10 * time.Second

// validName restricts server names accepted from and passed to external
// commands. Everything else is rejected rather than quoted.
var validName = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validCommandName restricts the executable token of a command template.
// This prevents shell injection via user client definitions.
var validCommandName = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Runner executes an external command and returns its stdout.
// Injectable for tests.
type Runner func(ctx context.Context, name string, args []string) ([]byte, error)

// execRunner runs the command via os/exec.
func execRunner(ctx context.Context, name string, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CommandAdapter drives a client that manages MCP servers through its own
// CLI (Claude Code style) rather than a config file. There is no atomic
// write: the merge diff is replayed as individual add/remove calls, each of
// which may fail on its own.
type CommandAdapter struct {
	clientID string
	commands map[string]string
	scope    string
	timeout  time.Duration
	run      Runner
}

// CommandOption configures a CommandAdapter.
type CommandOption func(*CommandAdapter)

// WithTimeout sets the per-invocation timeout.
func WithTimeout(d time.Duration) CommandOption {
	return func(a *CommandAdapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithScope sets the {scope} placeholder value (local, user, project).
func WithScope(scope string) CommandOption {
	return func(a *CommandAdapter) {
		if scope != "" {
			a.scope = scope
		}
	}
}

// WithRunner replaces the command runner. Used in tests.
func WithRunner(run Runner) CommandOption {
	return func(a *CommandAdapter) {
		a.run = run
	}
}

// NewCommandAdapter creates a command-backed adapter from the client's
// command templates.
func NewCommandAdapter(clientID string, commands map[string]string, opts ...CommandOption) *CommandAdapter {
	a := &CommandAdapter{
		clientID: clientID,
		commands: commands,
		scope:    "local",
		timeout:  DefaultCommandTimeout,
		run:      execRunner,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load enumerates the client's current entries via its list command.
// Output lines are expected in "name: command args..." form; lines that do
// not parse are skipped.
func (a *CommandAdapter) Load() (mcp.ServerSet, error) {
	out, err := a.invoke(a.commands[CmdList], nil)
	if err != nil {
		return nil, err
	}

	set := mcp.NewServerSet()
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if !validName.MatchString(name) {
			continue
		}
		fields := splitCommandLine(strings.TrimSpace(rest))
		if len(fields) == 0 {
			continue
		}
		set[name] = &mcp.Server{
			Name:    name,
			Command: fields[0],
			Args:    fields[1:],
		}
	}
	return set, nil
}

// Apply replays the merge diff against the client: adds for source-only
// entries, remove+add for updated entries, removes for managed entries the
// source dropped. Partial application is possible; the caller gets one
// result per entry.
func (a *CommandAdapter) Apply(res *merge.Result) []EntryResult {
	var results []EntryResult

	for _, name := range res.Added.Names() {
		results = append(results, EntryResult{
			Name:   name,
			Action: ActionAdd,
			Err:    a.addServer(res.Added[name]),
		})
	}

	updated := make([]string, 0, len(res.Updated))
	for name := range res.Updated {
		updated = append(updated, name)
	}
	sort.Strings(updated)
	for _, name := range updated {
		err := a.removeServer(name)
		if err == nil {
			err = a.addServer(res.Updated[name].New)
		}
		results = append(results, EntryResult{Name: name, Action: ActionUpdate, Err: err})
	}

	for _, name := range res.Removed.Names() {
		results = append(results, EntryResult{
			Name:   name,
			Action: ActionRemove,
			Err:    a.removeServer(name),
		})
	}

	return results
}

// addServer invokes the add command template for one entry.
func (a *CommandAdapter) addServer(server *mcp.Server) error {
	if !validName.MatchString(server.Name) {
		return errors.Wrapf(ErrCommandFailed, "invalid server name %q", server.Name)
	}
	_, err := a.invoke(a.commands[CmdAdd], server)
	return err
}

// removeServer invokes the remove command template for one name.
func (a *CommandAdapter) removeServer(name string) error {
	if !validName.MatchString(name) {
		return errors.Wrapf(ErrCommandFailed, "invalid server name %q", name)
	}
	_, err := a.invoke(a.commands[CmdRemove], &mcp.Server{Name: name})
	return err
}

// invoke expands a command template and runs it.
func (a *CommandAdapter) invoke(template string, server *mcp.Server) ([]byte, error) {
	if template == "" {
		return nil, errors.Wrapf(ErrCommandFailed, "client %s has no command for this operation", a.clientID)
	}

	parts, err := a.expandTemplate(template, server)
	if err != nil {
		return nil, err
	}
	if !validCommandName.MatchString(parts[0]) {
		return nil, errors.Wrapf(ErrCommandFailed, "invalid command name %q", parts[0])
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	out, err := a.run(ctx, parts[0], parts[1:])
	if err != nil {
		return nil, errors.Wrapf(ErrCommandFailed, "%s %s: %v", parts[0], strings.Join(parts[1:], " "), err)
	}
	return out, nil
}

// expandTemplate substitutes the template placeholders for one entry.
// Recognized placeholders: {scope}, {transport}, {name}, {command}, {args},
// {env_flags}, {command_args}. {args} and {env_flags} expand to zero or
// more fields.
func (a *CommandAdapter) expandTemplate(template string, server *mcp.Server) ([]string, error) {
	templateParts := splitCommandLine(template)
	if len(templateParts) == 0 {
		return nil, errors.Wrapf(ErrCommandFailed, "client %s has an empty command template", a.clientID)
	}

	var parts []string
	for _, part := range templateParts {
		switch {
		case strings.Contains(part, "{scope}"):
			parts = append(parts, strings.ReplaceAll(part, "{scope}", a.scope))
		case strings.Contains(part, "{transport}"):
			parts = append(parts, strings.ReplaceAll(part, "{transport}", "stdio"))
		case strings.Contains(part, "{env_flags}"):
			if server != nil {
				parts = append(parts, envFlags(server.Env)...)
			}
		case strings.Contains(part, "{name}"):
			if server != nil {
				parts = append(parts, strings.ReplaceAll(part, "{name}", server.Name))
			}
		case strings.Contains(part, "{command_args}"):
			if server != nil {
				parts = append(parts, shellJoin(append([]string{server.Command}, server.Args...)))
			}
		case strings.Contains(part, "{command}"):
			if server != nil {
				parts = append(parts, strings.ReplaceAll(part, "{command}", server.Command))
			}
		case strings.Contains(part, "{args}"):
			if server != nil {
				parts = append(parts, server.Args...)
			}
		default:
			parts = append(parts, part)
		}
	}

	// Drop empty fields left over from placeholders with no value
	filtered := parts[:0]
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			filtered = append(filtered, part)
		}
	}
	if len(filtered) == 0 {
		return nil, errors.Wrapf(ErrCommandFailed, "client %s command expanded to nothing", a.clientID)
	}
	return filtered, nil
}

// envFlags builds repeated -e KEY=value flags, skipping names that are not
// valid environment identifiers.
func envFlags(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var flags []string
	for _, k := range keys {
		if !validEnvName.MatchString(k) {
			continue
		}
		flags = append(flags, "-e", k+"="+env[k])
	}
	return flags
}

// validEnvName restricts environment variable names in env flags.
var validEnvName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
