package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the per-crate directory holding config.yml and the watch-mode log.
const DirName = ".macrolens"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given crate directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (MACROLENS_*)
// 2. Config file (.macrolens/config.yml or .macrolens/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(l.rootDir, DirName))

	// MACROLENS_FORMAT_ENABLED overrides format.enabled
	v.SetEnvPrefix("MACROLENS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Scalars only; list values come from the config file.
	v.BindEnv("expand.toolchain")
	v.BindEnv("expand.profile")
	v.BindEnv("expand.timeout_seconds")

	v.BindEnv("format.enabled")
	v.BindEnv("format.command")
	v.BindEnv("format.timeout_seconds")

	v.BindEnv("watch.debounce_ms")

	v.BindEnv("locate.function_keyword")
	v.BindEnv("locate.impl_keyword")
	v.BindEnv("locate.for_keyword")

	v.BindEnv("cache.size")
	v.BindEnv("display.color")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("expand.toolchain", defaults.Expand.Toolchain)
	v.SetDefault("expand.profile", defaults.Expand.Profile)
	v.SetDefault("expand.timeout_seconds", defaults.Expand.TimeoutSeconds)

	v.SetDefault("format.enabled", defaults.Format.Enabled)
	v.SetDefault("format.command", defaults.Format.Command)
	v.SetDefault("format.args", defaults.Format.Args)
	v.SetDefault("format.timeout_seconds", defaults.Format.TimeoutSeconds)

	v.SetDefault("watch.patterns", defaults.Watch.Patterns)
	v.SetDefault("watch.ignore", defaults.Watch.Ignore)
	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)

	v.SetDefault("locate.type_keywords", defaults.Locate.TypeKeywords)
	v.SetDefault("locate.function_keyword", defaults.Locate.FunctionKeyword)
	v.SetDefault("locate.impl_keyword", defaults.Locate.ImplKeyword)
	v.SetDefault("locate.for_keyword", defaults.Locate.ForKeyword)

	v.SetDefault("cache.size", defaults.Cache.Size)
	v.SetDefault("display.color", defaults.Display.Color)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
