// Package config provides tool configuration for mcp-sync using Viper.
//
// This is mcp-sync's own behavior configuration (backup suffix, command
// timeouts), not the server configs it synchronizes.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/ztripez/mcp-sync/internal/backup"
	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/paths"
	"github.com/ztripez/mcp-sync/pkg/fileutil"
)

// Config represents the top-level configuration structure.
type Config struct {
	// BackupSuffix is appended to a file's path for its pre-write backup.
	BackupSuffix string `mapstructure:"backup_suffix" yaml:"backup_suffix"`

	// CommandTimeout bounds each external client command invocation.
	CommandTimeout time.Duration `mapstructure:"command_timeout" yaml:"command_timeout"`

	// CLIScope is the scope passed to command-backed clients (local, user,
	// project).
	CLIScope string `mapstructure:"cli_scope" yaml:"cli_scope"`

	// DisabledClients lists catalog client ids discovery must ignore.
	DisabledClients []string `mapstructure:"disabled_clients" yaml:"disabled_clients"`
}

// ClientDisabled reports whether a client id is disabled.
func (c *Config) ClientDisabled(id string) bool {
	for _, d := range c.DisabledClients {
		if d == id {
			return true
		}
	}
	return false
}

// Init initializes Viper with defaults and the config search path.
// Call once at startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix("MCP_SYNC")
	viper.AutomaticEnv()

	viper.SetDefault("backup_suffix", backup.DefaultSuffix)
	viper.SetDefault("command_timeout", 10*time.Second)
	viper.SetDefault("cli_scope", "local")
	viper.SetDefault("disabled_clients", []string{})
}

// Load reads the configuration. With a non-empty path that exact file is
// required; with an empty path the default locations are searched and a
// missing file just yields the defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
		if path != "" {
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return &cfg, nil
}

// WriteDefault writes a config.yaml with the default values into the config
// directory. Used by init; refuses to overwrite an existing file.
func WriteDefault() (string, error) {
	path := filepath.Join(paths.ConfigDir(), "config.yaml")
	if err := paths.EnsureDir(paths.ConfigDir(), 0); err != nil {
		return "", errors.Wrap(err, "creating config directory")
	}

	if _, err := os.Stat(path); err == nil {
		return path, errors.Newf("config file already exists at %s", path)
	}

	cfg := Config{
		BackupSuffix:   backup.DefaultSuffix,
		CommandTimeout: 10 * time.Second,
		CLIScope:       "local",
	}
	if err := fileutil.AtomicWriteYAML(path, cfg); err != nil {
		return "", errors.Wrap(err, "writing default config")
	}
	return path, nil
}
