// Package config provides configuration loading and validation for botshell.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/tessro/botshell/internal/paths"
	"github.com/tessro/botshell/internal/supervisor"
)

// GlobalConfig represents the botshell configuration file.
type GlobalConfig struct {
	// LogLevel is the minimum level written to the log file.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// Backend configures how the backend server is launched.
	Backend BackendConfig `toml:"backend" yaml:"backend"`

	// Shell configures host lifecycle behavior.
	Shell ShellConfig `toml:"shell" yaml:"shell"`
}

// BackendConfig overrides the programs used to run the backend. Which of
// them is used depends on the build mode, not on this file.
type BackendConfig struct {
	Interpreter string   `toml:"interpreter" yaml:"interpreter"`
	Script      string   `toml:"script" yaml:"script"`
	Binary      string   `toml:"binary" yaml:"binary"`
	StopSignal  string   `toml:"stop_signal" yaml:"stop_signal"`
	Env         []string `toml:"env" yaml:"env"`
}

// ShellConfig contains host lifecycle settings.
type ShellConfig struct {
	// StopOnExit stops the backend when the host exits. Nil means true.
	StopOnExit *bool `toml:"stop_on_exit" yaml:"stop_on_exit"`
}

// DefaultLogLevel is the default log level.
const DefaultLogLevel = "info"

// DefaultStopSignal is sent when no stop_signal is configured.
const DefaultStopSignal = "SIGKILL"

// LoadGlobalConfig loads the configuration from the default path.
// Returns nil config and nil error if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	path, err := paths.ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadGlobalConfigFromPath(path)
}

// LoadGlobalConfigFromPath loads the config from a specific path. Files
// ending in .yaml or .yml are decoded as YAML, everything else as TOML.
// Returns nil config and nil error if the file doesn't exist.
func LoadGlobalConfigFromPath(path string) (*GlobalConfig, error) {
	var cfg GlobalConfig

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	return &cfg, nil
}

// GetLogLevel returns the configured log level or the default.
func (c *GlobalConfig) GetLogLevel() string {
	if c != nil && c.LogLevel != "" {
		return c.LogLevel
	}
	return DefaultLogLevel
}

// GetStopSignal returns the configured stop signal name or the default.
func (c *GlobalConfig) GetStopSignal() string {
	if c != nil && c.Backend.StopSignal != "" {
		return c.Backend.StopSignal
	}
	return DefaultStopSignal
}

// GetStopOnExit reports whether the host stops the backend on exit.
func (c *GlobalConfig) GetStopOnExit() bool {
	if c != nil && c.Shell.StopOnExit != nil {
		return *c.Shell.StopOnExit
	}
	return true
}

// Invocation returns the backend programs with any configured overrides
// applied over supervisor.DefaultInvocation.
func (c *GlobalConfig) Invocation() supervisor.Invocation {
	inv := supervisor.DefaultInvocation()
	if c == nil {
		return inv
	}
	if c.Backend.Interpreter != "" {
		inv.Interpreter = c.Backend.Interpreter
	}
	if c.Backend.Script != "" {
		inv.Script = c.Backend.Script
	}
	if c.Backend.Binary != "" {
		inv.Binary = c.Backend.Binary
	}
	inv.Env = append([]string(nil), c.Backend.Env...)
	return inv
}
