// Package build assembles the resolved inputs of a simulator build: include
// directories, source files, macros and flags, combined into the argument list
// handed to the external compiler driver.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/simbuild/internal/fileutil"
	"github.com/harrison/simbuild/internal/flags"
	"github.com/harrison/simbuild/internal/ignore"
	"github.com/harrison/simbuild/internal/macro"
	"github.com/harrison/simbuild/internal/staging"
)

// Options configures Assemble.
type Options struct {
	// SourceDir is the root of the source tree.
	SourceDir string
	// AppConfig is the application configuration path; a missing file is empty.
	AppConfig string
	// IgnoreFile holds ignore regexes; a missing file disables filtering.
	IgnoreFile string
	// Target selects the target override layer. Empty means macro.SimulatorTarget.
	Target string
	// Strategy selects the execution strategy flag set.
	Strategy flags.Strategy
	// SkipVCS prunes .git and .hg directories while scanning.
	SkipVCS bool
	// OutputDir is where the build is staged. When it lies inside SourceDir
	// it is left out of the scan, so staging does not change later plans.
	OutputDir string
}

// Plan is the fully resolved input of one build.
type Plan struct {
	Target      string
	Strategy    flags.Strategy
	IncludeDirs []string
	Sources     []string
	Macros      *macro.Set
	Flags       []string
}

// Assemble scans, filters and resolves everything a build needs.
// The first failing step aborts and its error is returned.
func Assemble(opts Options) (*Plan, error) {
	target := opts.Target
	if target == "" {
		target = macro.SimulatorTarget
	}

	buildFlags, err := flags.For(opts.Strategy)
	if err != nil {
		return nil, err
	}

	exclude, err := OutputExclusions(opts.SourceDir, opts.OutputDir)
	if err != nil {
		return nil, err
	}
	scanner := fileutil.NewScanner(fileutil.ScanOptions{SkipVCS: opts.SkipVCS, Exclude: exclude})

	dirs, err := scanner.RecursiveDirectories(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directories: %w", err)
	}
	dirs, err = ignore.Filter(dirs, opts.IgnoreFile)
	if err != nil {
		return nil, fmt.Errorf("failed to filter directories: %w", err)
	}

	sources, err := scanner.RecursiveSourceFiles(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan source files: %w", err)
	}
	sources, err = ignore.Filter(sources, opts.IgnoreFile)
	if err != nil {
		return nil, fmt.Errorf("failed to filter source files: %w", err)
	}

	macros, err := macro.ResolveTarget(opts.AppConfig, target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve macros: %w", err)
	}

	return &Plan{
		Target:      target,
		Strategy:    opts.Strategy,
		IncludeDirs: dirs,
		Sources:     sources,
		Macros:      macros,
		Flags:       buildFlags,
	}, nil
}

// OutputExclusions returns the directories under root that exist only to hold
// outputDir: outputDir itself, plus each ancestor below root whose single entry
// leads towards it. An output directory outside root, or equal to it, yields nil.
func OutputExclusions(root, outputDir string) ([]string, error) {
	if outputDir == "" {
		return nil, nil
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", root, err)
	}
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", outputDir, err)
	}

	rel, err := filepath.Rel(absRoot, absOut)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, nil
	}

	exclude := []string{absOut}
	for child, dir := absOut, filepath.Dir(absOut); dir != absRoot; child, dir = dir, filepath.Dir(dir) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) != 1 || entries[0].Name() != filepath.Base(child) {
			break
		}
		exclude = append(exclude, dir)
	}
	return exclude, nil
}

// Args returns the compiler arguments: flags, then -D per macro, then -I per
// include directory, then the sources.
func (p *Plan) Args() []string {
	args := make([]string, 0, len(p.Flags)+p.Macros.Len()+len(p.IncludeDirs)+len(p.Sources))
	args = append(args, p.Flags...)
	args = append(args, p.Macros.CompilerFlags()...)
	for _, dir := range p.IncludeDirs {
		args = append(args, "-I"+dir)
	}
	args = append(args, p.Sources...)
	return args
}

// Manifest converts the plan into a stageable manifest.
func (p *Plan) Manifest() staging.Manifest {
	return staging.Manifest{
		Target:      p.Target,
		Strategy:    string(p.Strategy),
		Macros:      p.Macros.Strings(),
		IncludeDirs: p.IncludeDirs,
		Sources:     p.Sources,
		Args:        p.Args(),
	}
}

// Stage writes the plan's manifest into outputDir.
func (p *Plan) Stage(ctx context.Context, outputDir string) (*staging.Manifest, error) {
	return staging.WriteManifest(ctx, outputDir, p.Manifest())
}
