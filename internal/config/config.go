// internal/config/config.go
package config

import (
	"path/filepath"
	"time"
)

type Config struct {
	// Scanning
	MaxDepth       int           `yaml:"max_depth"`
	Concurrency    int           `yaml:"concurrency"` // 0 = derived from CPU count
	RepoTimeout    time.Duration `yaml:"repo_timeout"`
	IncludeNested  bool          `yaml:"include_nested"`
	IgnorePatterns []string      `yaml:"ignore_patterns"`
}

func NewConfig() *Config {
	return &Config{
		MaxDepth: 10,
		IgnorePatterns: []string{
			"**/node_modules/**",
			"**/vendor/**",
			"**/.cache/**",
			"**/.npm/**",
			"**/.pnpm/**",
			"**/__pycache__/**",
			"**/.venv/**",
			"**/venv/**",
			"**/.tox/**",
			"**/target/**",
			"**/build/**",
			"**/dist/**",
		},
		RepoTimeout: 5 * time.Second,
	}
}

func (c *Config) ShouldIgnore(path string) bool {
	for _, pattern := range c.IgnorePatterns {
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		// Try matching against each path segment for ** patterns
		if containsDoublestar(pattern) {
			if matchDoublestar(pattern, path) {
				return true
			}
		}
	}
	return false
}

func containsDoublestar(pattern string) bool {
	for i := 0; i < len(pattern)-1; i++ {
		if pattern[i] == '*' && pattern[i+1] == '*' {
			return true
		}
	}
	return false
}

func matchDoublestar(pattern, path string) bool {
	// Simple implementation: "**/node_modules/**" matches when the final
	// path segment is node_modules
	if len(pattern) < 5 {
		return false
	}
	middle := pattern[3 : len(pattern)-3]
	return filepath.Base(filepath.Dir(path)) == middle ||
		filepath.Base(path) == middle
}
