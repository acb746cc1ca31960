package dupescan

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// regexPrefix marks an ignore line as a regular expression instead of a glob.
const regexPrefix = "re:"

// IgnoreManager matches root-relative paths against glob and regex patterns.
//
// Globs use doublestar syntax and are tried against both the full relative
// path and the entry's base name, so "*.tmp" and "**/.git" both work.
type IgnoreManager struct {
	globs    []string
	patterns []*regexp.Regexp
}

// NewIgnoreManager creates an ignore manager with no patterns.
func NewIgnoreManager() *IgnoreManager {
	return &IgnoreManager{}
}

// LoadIgnoreFile reads one pattern per line. Blank lines and lines starting
// with # are skipped.
func (im *IgnoreManager) LoadIgnoreFile(ignorePath string) error {
	file, err := os.Open(ignorePath)
	if err != nil {
		return fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := im.AddPattern(line); err != nil {
			return fmt.Errorf("invalid pattern at line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ignore file: %w", err)
	}
	return nil
}

// AddPattern adds a glob, or a regex when prefixed with "re:".
func (im *IgnoreManager) AddPattern(patternStr string) error {
	if expr, ok := strings.CutPrefix(patternStr, regexPrefix); ok {
		pattern, err := regexp.Compile(expr)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %s - %w", expr, err)
		}
		im.patterns = append(im.patterns, pattern)
		return nil
	}

	glob := filepath.ToSlash(patternStr)
	if !doublestar.ValidatePattern(glob) {
		return fmt.Errorf("invalid glob pattern: %s", patternStr)
	}
	im.globs = append(im.globs, glob)
	return nil
}

// ShouldIgnore reports whether relativePath matches any pattern.
func (im *IgnoreManager) ShouldIgnore(relativePath string) bool {
	if im == nil || !im.HasPatterns() {
		return false
	}

	normalisedPath := filepath.ToSlash(relativePath)
	base := normalisedPath
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}

	for _, glob := range im.globs {
		if matched, _ := doublestar.Match(glob, normalisedPath); matched {
			return true
		}
		if matched, _ := doublestar.Match(glob, base); matched {
			return true
		}
	}

	for _, pattern := range im.patterns {
		if pattern.MatchString(normalisedPath) {
			return true
		}
	}

	return false
}

// HasPatterns returns true if there are any ignore patterns loaded
func (im *IgnoreManager) HasPatterns() bool {
	return len(im.globs)+len(im.patterns) > 0
}

// Patterns returns every pattern in its source form.
func (im *IgnoreManager) Patterns() []string {
	out := make([]string, 0, len(im.globs)+len(im.patterns))
	out = append(out, im.globs...)
	for _, pattern := range im.patterns {
		out = append(out, regexPrefix+pattern.String())
	}
	return out
}
