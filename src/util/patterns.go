package util

import (
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// PathMatcher matches slash-separated file paths against gitignore-style patterns
type PathMatcher struct {
	patterns []string
	matcher  *ignore.GitIgnore
}

// NewPathMatcher compiles the given patterns. Blank entries are dropped.
func NewPathMatcher(patterns ...string) *PathMatcher {
	var kept []string
	for _, p := range patterns {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	m := &PathMatcher{patterns: kept}
	if len(kept) > 0 {
		m.matcher = ignore.CompileIgnoreLines(kept...)
	}
	return m
}

// Patterns returns the compiled patterns
func (m *PathMatcher) Patterns() []string {
	return m.patterns
}

// Matches reports whether path matches any pattern. An empty matcher matches nothing.
func (m *PathMatcher) Matches(path string) bool {
	if m == nil || m.matcher == nil {
		return false
	}
	return m.matcher.MatchesPath(NormalizePath(path))
}

// NormalizePath converts path to a clean, slash-separated, relative form
func NormalizePath(path string) string {
	p := filepath.ToSlash(filepath.Clean(path))
	p = strings.TrimPrefix(p, "./")
	return strings.TrimPrefix(p, "/")
}
