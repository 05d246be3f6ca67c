package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrEmptyToolchain indicates a missing rustup toolchain
	ErrEmptyToolchain = errors.New("empty toolchain")

	// ErrEmptyCommand indicates a missing external command
	ErrEmptyCommand = errors.New("empty command")

	// ErrInvalidTimeout indicates a non-positive timeout
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidDebounce indicates a non-positive debounce interval
	ErrInvalidDebounce = errors.New("invalid debounce")

	// ErrEmptyPatterns indicates no watch patterns
	ErrEmptyPatterns = errors.New("empty watch patterns")

	// ErrInvalidKeyword indicates an empty keyword set or a keyword that is not an identifier
	ErrInvalidKeyword = errors.New("invalid keyword")

	// ErrInvalidCacheSize indicates a non-positive cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateExpand(&cfg.Expand); err != nil {
		errs = append(errs, err)
	}

	if err := validateFormat(&cfg.Format); err != nil {
		errs = append(errs, err)
	}

	if err := validateWatch(&cfg.Watch); err != nil {
		errs = append(errs, err)
	}

	if err := validateLocate(&cfg.Locate); err != nil {
		errs = append(errs, err)
	}

	if cfg.Cache.Size <= 0 {
		errs = append(errs, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidCacheSize, cfg.Cache.Size))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateExpand(cfg *ExpandConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Toolchain) == "" {
		errs = append(errs, fmt.Errorf("%w: expand.toolchain is required", ErrEmptyToolchain))
	}

	if cfg.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("%w: expand.timeout_seconds must be positive, got %d", ErrInvalidTimeout, cfg.TimeoutSeconds))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateFormat(cfg *FormatConfig) error {
	// A disabled formatter is never run, so its settings don't matter
	if !cfg.Enabled {
		return nil
	}

	var errs []error

	if strings.TrimSpace(cfg.Command) == "" {
		errs = append(errs, fmt.Errorf("%w: format.command is required when formatting is enabled", ErrEmptyCommand))
	}

	if cfg.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("%w: format.timeout_seconds must be positive, got %d", ErrInvalidTimeout, cfg.TimeoutSeconds))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateWatch(cfg *WatchConfig) error {
	var errs []error

	if len(cfg.Patterns) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one pattern required", ErrEmptyPatterns))
	}

	if cfg.DebounceMs <= 0 {
		errs = append(errs, fmt.Errorf("%w: watch.debounce_ms must be positive, got %d", ErrInvalidDebounce, cfg.DebounceMs))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateLocate(cfg *LocateConfig) error {
	var errs []error

	if len(cfg.TypeKeywords) == 0 {
		errs = append(errs, fmt.Errorf("%w: locate.type_keywords needs at least one keyword", ErrInvalidKeyword))
	}
	for _, kw := range cfg.TypeKeywords {
		if !isIdentifier(kw) {
			errs = append(errs, fmt.Errorf("%w: locate.type_keywords entry %q is not an identifier", ErrInvalidKeyword, kw))
		}
	}

	for name, kw := range map[string]string{
		"function_keyword": cfg.FunctionKeyword,
		"impl_keyword":     cfg.ImplKeyword,
		"for_keyword":      cfg.ForKeyword,
	} {
		if !isIdentifier(kw) {
			errs = append(errs, fmt.Errorf("%w: locate.%s %q is not an identifier", ErrInvalidKeyword, name, kw))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// isIdentifier reports whether s would lex as a single identifier token.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The result still matches every joined sentinel with errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return &validationError{errs: errs}
}

type validationError struct {
	errs []error
}

func (e *validationError) Error() string {
	msgs := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e *validationError) Unwrap() []error {
	return e.errs
}
