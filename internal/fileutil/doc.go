// Package fileutil enumerates the directories and C/C++ source files of a
// firmware source tree.
//
// # Traversal Order
//
// Traversal is sequential and depth-first. Siblings are visited in the order
// returned by os.ReadDir (sorted by name), so output is deterministic across
// runs and platforms.
//
//   - RecursiveDirectories emits the root first, then each subdirectory's
//     subtree in turn. Every entry is absolute with a trailing separator.
//   - RecursiveSourceFiles emits a directory's own .c/.cpp files before
//     descending into its subdirectories.
//
// # Errors
//
// Unlike a tolerant walker, the scanner stops at the first read or stat
// failure and returns it. Nothing accumulated up to that point is returned.
//
// # VCS Directories
//
// By default .git and .hg directories are traversed like any other
// directory. Set ScanOptions.SkipVCS to prune them.
//
// # Usage
//
//	scanner := fileutil.NewScanner(fileutil.ScanOptions{SkipVCS: true})
//	dirs, err := scanner.RecursiveDirectories("mbed-os")
//	if err != nil {
//	    return err
//	}
//	sources, err := scanner.RecursiveSourceFiles("mbed-os")
package fileutil
