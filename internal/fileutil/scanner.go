package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceExtensions are the file extensions treated as compilable sources.
var SourceExtensions = []string{".c", ".cpp"}

// vcsDirs are version-control metadata directories that SkipVCS prunes.
var vcsDirs = map[string]bool{
	".git": true,
	".hg":  true,
}

// ScanOptions configures the source tree scanner
type ScanOptions struct {
	// Extensions is a list of source file extensions (case-insensitive, e.g., ".c").
	// Empty means SourceExtensions.
	Extensions []string
	// SkipVCS prunes .git and .hg directories from traversal.
	// When false every directory is traversed, including VCS metadata.
	SkipVCS bool
	// Exclude lists absolute directories pruned from traversal together with
	// their subtrees.
	Exclude []string
}

// Scanner enumerates directories and source files under a root.
// It holds no state between calls; each call returns a fresh result.
type Scanner struct {
	extMap  map[string]bool
	skipVCS bool
	exclude map[string]bool
}

// NewScanner creates a Scanner for the provided options
func NewScanner(opts ScanOptions) *Scanner {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = SourceExtensions
	}

	// Create extension map for fast lookup
	extMap := make(map[string]bool, len(exts))
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[strings.ToLower(ext)] = true
	}

	exclude := make(map[string]bool, len(opts.Exclude))
	for _, dir := range opts.Exclude {
		exclude[filepath.Clean(dir)] = true
	}

	return &Scanner{
		extMap:  extMap,
		skipVCS: opts.SkipVCS,
		exclude: exclude,
	}
}

// defaultScanner matches the historical behaviour: .c/.cpp sources, no VCS pruning.
var defaultScanner = NewScanner(ScanOptions{})

// ListSubdirectories returns the immediate child directories of dir using the default scanner.
func ListSubdirectories(dir string) ([]string, error) {
	return defaultScanner.ListSubdirectories(dir)
}

// ListSourceFiles returns the immediate source files of dir using the default scanner.
func ListSourceFiles(dir string) ([]string, error) {
	return defaultScanner.ListSourceFiles(dir)
}

// RecursiveDirectories returns every directory under dir using the default scanner.
func RecursiveDirectories(dir string) ([]string, error) {
	return defaultScanner.RecursiveDirectories(dir)
}

// RecursiveSourceFiles returns every source file under dir using the default scanner.
func RecursiveSourceFiles(dir string) ([]string, error) {
	return defaultScanner.RecursiveSourceFiles(dir)
}

// ListSubdirectories returns the immediate child directories of dir, joined onto dir.
// Entries are inspected with Lstat, so a symlink to a directory is not a directory.
// Any read or stat error aborts the call.
func (s *Scanner) ListSubdirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if s.skipVCS && vcsDirs[entry.Name()] {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		info, err := os.Lstat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			continue
		}
		if excluded, err := s.excluded(path); err != nil {
			return nil, err
		} else if excluded {
			continue
		}

		dirs = append(dirs, path)
	}

	return dirs, nil
}

// ListSourceFiles returns the immediate children of dir whose extension is a
// source extension. Only the name is checked, the entry type is not.
func (s *Scanner) ListSourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	files := make([]string, 0)
	for _, entry := range entries {
		if !s.isSource(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	return files, nil
}

// RecursiveDirectories returns every directory in the tree rooted at dir in
// depth-first pre-order. Each entry is absolute and ends with a separator.
func (s *Scanner) RecursiveDirectories(dir string) ([]string, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", dir, err)
	}
	if !strings.HasSuffix(absPath, string(filepath.Separator)) {
		absPath += string(filepath.Separator)
	}

	dirs := []string{absPath}

	children, err := s.ListSubdirectories(dir)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		sub, err := s.RecursiveDirectories(child)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, sub...)
	}

	return dirs, nil
}

// RecursiveSourceFiles returns every source file in the tree rooted at dir.
// Files directly under a directory precede the files of its subdirectories.
func (s *Scanner) RecursiveSourceFiles(dir string) ([]string, error) {
	files, err := s.ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}

	children, err := s.ListSubdirectories(dir)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		sub, err := s.RecursiveSourceFiles(child)
		if err != nil {
			return nil, err
		}
		files = append(files, sub...)
	}

	return files, nil
}

func (s *Scanner) excluded(path string) (bool, error) {
	if len(s.exclude) == 0 {
		return false, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	return s.exclude[abs], nil
}

func (s *Scanner) isSource(name string) bool {
	return s.extMap[strings.ToLower(filepath.Ext(name))]
}
