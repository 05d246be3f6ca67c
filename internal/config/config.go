package config

import (
	"time"

	"github.com/mvp-joe/macrolens/internal/expand"
	"github.com/mvp-joe/macrolens/internal/format"
	"github.com/mvp-joe/macrolens/internal/locate"
	"github.com/mvp-joe/macrolens/internal/lookup"
	"github.com/mvp-joe/macrolens/internal/watcher"
)

// Config represents the complete macrolens configuration.
// It can be loaded from .macrolens/config.yml with environment variable overrides.
type Config struct {
	Expand  ExpandConfig  `yaml:"expand" mapstructure:"expand"`
	Format  FormatConfig  `yaml:"format" mapstructure:"format"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
	Locate  LocateConfig  `yaml:"locate" mapstructure:"locate"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Display DisplayConfig `yaml:"display" mapstructure:"display"`
}

// ExpandConfig configures the compiler invocation.
type ExpandConfig struct {
	Toolchain      string `yaml:"toolchain" mapstructure:"toolchain"`             // rustup toolchain, e.g. "nightly"
	Profile        string `yaml:"profile" mapstructure:"profile"`                 // cargo profile passed to --profile
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"` // kill the compiler after this long
}

// FormatConfig configures the external formatter.
type FormatConfig struct {
	Enabled        bool     `yaml:"enabled" mapstructure:"enabled"`
	Command        string   `yaml:"command" mapstructure:"command"`
	Args           []string `yaml:"args" mapstructure:"args"`
	TimeoutSeconds int      `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// WatchConfig defines which changes trigger a reload in watch mode.
type WatchConfig struct {
	Patterns   []string `yaml:"patterns" mapstructure:"patterns"`       // glob patterns relative to the crate
	Ignore     []string `yaml:"ignore" mapstructure:"ignore"`           // glob patterns to ignore
	DebounceMs int      `yaml:"debounce_ms" mapstructure:"debounce_ms"` // quiet period before reloading
}

// LocateConfig holds the keywords the locators search for.
type LocateConfig struct {
	TypeKeywords    []string `yaml:"type_keywords" mapstructure:"type_keywords"`
	FunctionKeyword string   `yaml:"function_keyword" mapstructure:"function_keyword"`
	ImplKeyword     string   `yaml:"impl_keyword" mapstructure:"impl_keyword"`
	ForKeyword      string   `yaml:"for_keyword" mapstructure:"for_keyword"`
}

// CacheConfig bounds the token tree cache.
type CacheConfig struct {
	Size int `yaml:"size" mapstructure:"size"` // number of token trees kept
}

// DisplayConfig controls terminal output.
type DisplayConfig struct {
	Color bool `yaml:"color" mapstructure:"color"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	fmtDefaults := format.DefaultOptions()
	kw := locate.DefaultKeywords()

	return &Config{
		Expand: ExpandConfig{
			Toolchain:      expand.DefaultToolchain,
			Profile:        expand.DefaultProfile,
			TimeoutSeconds: int(expand.DefaultTimeout / time.Second),
		},
		Format: FormatConfig{
			Enabled:        fmtDefaults.Enabled,
			Command:        fmtDefaults.Command,
			Args:           fmtDefaults.Args,
			TimeoutSeconds: int(fmtDefaults.Timeout / time.Second),
		},
		Watch: WatchConfig{
			Patterns: []string{
				"**/*.rs",
				"**/Cargo.toml",
			},
			Ignore: []string{
				"target/**",
				".git/**",
			},
			DebounceMs: int(watcher.DefaultDebounce / time.Millisecond),
		},
		Locate: LocateConfig{
			TypeKeywords:    kw.TypeDefinition,
			FunctionKeyword: kw.Function,
			ImplKeyword:     kw.Impl,
			ForKeyword:      kw.For,
		},
		Cache: CacheConfig{
			Size: lookup.DefaultCacheSize,
		},
		Display: DisplayConfig{
			Color: true,
		},
	}
}

// ExpandOptions returns the toolchain part of the expansion options.
// Target selection is left to the caller.
func (c *Config) ExpandOptions() expand.Options {
	return expand.Options{
		Toolchain: c.Expand.Toolchain,
		Profile:   c.Expand.Profile,
		Timeout:   time.Duration(c.Expand.TimeoutSeconds) * time.Second,
	}
}

// FormatOptions converts the format section.
func (c *Config) FormatOptions() format.Options {
	return format.Options{
		Enabled: c.Format.Enabled,
		Command: c.Format.Command,
		Args:    c.Format.Args,
		Timeout: time.Duration(c.Format.TimeoutSeconds) * time.Second,
	}
}

// WatchOptions converts the watch section.
func (c *Config) WatchOptions() watcher.Options {
	return watcher.Options{
		Patterns: c.Watch.Patterns,
		Ignore:   c.Watch.Ignore,
		Debounce: time.Duration(c.Watch.DebounceMs) * time.Millisecond,
	}
}

// Keywords converts the locate section.
func (c *Config) Keywords() locate.Keywords {
	return locate.Keywords{
		TypeDefinition: c.Locate.TypeKeywords,
		Function:       c.Locate.FunctionKeyword,
		Impl:           c.Locate.ImplKeyword,
		For:            c.Locate.ForKeyword,
	}
}

// LookupOptions returns the orchestrator options. The tokenizer is left at its default.
func (c *Config) LookupOptions(verbose bool) lookup.Options {
	return lookup.Options{
		Keywords:  c.Keywords(),
		CacheSize: c.Cache.Size,
		Verbose:   verbose,
	}
}
