package watcher

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Filter decides which paths, relative to the watch root, are of interest.
type Filter struct {
	include []compiledPattern
	ignore  []compiledPattern
}

// NewFilter compiles include and ignore globs. An empty include list
// accepts every path that is not ignored.
func NewFilter(include, ignore []string) (*Filter, error) {
	f := &Filter{}
	for _, pattern := range include {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid watch pattern %q: %w", pattern, err)
		}
		f.include = append(f.include, compiledPattern{pattern: pattern, glob: g})
	}
	for _, pattern := range ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		f.ignore = append(f.ignore, compiledPattern{pattern: pattern, glob: g})
	}
	return f, nil
}

// Match reports whether a file at relPath (slash separated) should trigger a reload.
func (f *Filter) Match(relPath string) bool {
	if f.Ignored(relPath) {
		return false
	}
	if len(f.include) == 0 {
		return true
	}
	return matchesAnyPattern(relPath, f.include)
}

// Ignored reports whether relPath, a file or directory, matches an ignore pattern.
func (f *Filter) Ignored(relPath string) bool {
	if matchesAnyPattern(relPath, f.ignore) {
		return true
	}
	// "target" should match pattern "target/**"
	return matchesAnyPattern(relPath+"/**", f.ignore)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
// A path in the root (no slash) also matches patterns with a leading "**/",
// so "**/*.rs" matches both "lib.rs" and "src/lib.rs".
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if !strings.HasPrefix(cp.pattern, "**/") {
				continue
			}
			simplified := strings.TrimPrefix(cp.pattern, "**/")
			if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(path) {
				return true
			}
		}
	}

	return false
}
