// Package ignore prunes candidate paths using regular expressions read from an
// ignore file, one pattern per non-blank line. Patterns use JavaScript
// (ECMAScript) regular expression syntax.
package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dlclark/regexp2"
)

// Patterns is an ordered list of compiled ignore patterns.
type Patterns []*regexp2.Regexp

// Match reports whether any pattern matches path.
func (p Patterns) Match(path string) (bool, error) {
	for _, re := range p {
		ok, err := re.MatchString(path)
		if err != nil {
			return false, fmt.Errorf("failed to match %q against %s: %w", path, re, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// ParsePatterns compiles every non-empty line of content.
// Lines are split on "\n" only and are not trimmed, so whitespace is part of the pattern.
func ParsePatterns(content string) (Patterns, error) {
	var patterns Patterns
	for i, line := range strings.Split(content, "\n") {
		if line == "" {
			continue
		}
		re, err := regexp2.Compile(line, regexp2.ECMAScript)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern on line %d: %w", i+1, err)
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}

// LoadPatterns reads and compiles the ignore file at path.
// A missing file yields (nil, false, nil).
func LoadPatterns(path string) (Patterns, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read ignore file: %w", err)
	}

	patterns, err := ParsePatterns(string(data))
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	return patterns, true, nil
}

// Filter returns the paths not matched by any pattern in ignoreFile, in input order.
// If ignoreFile does not exist, paths is returned unchanged.
func Filter(paths []string, ignoreFile string) ([]string, error) {
	patterns, found, err := LoadPatterns(ignoreFile)
	if err != nil {
		return nil, err
	}
	if !found {
		return paths, nil
	}

	kept := make([]string, 0, len(paths))
	for _, path := range paths {
		ignored, err := patterns.Match(path)
		if err != nil {
			return nil, err
		}
		if ignored {
			continue
		}
		kept = append(kept, path)
	}
	return kept, nil
}
