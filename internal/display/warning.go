// Package display renders user-facing warnings on the terminal.
package display

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
)

const indent = "    "

// Warning is a multi-line notice about the scanned tree.
type Warning struct {
	Title      string
	Message    string   // optional
	Files      []string // optional
	Suggestion string   // optional
}

// Lines renders the warning one output line per entry. Empty optional
// sections are omitted.
func (w Warning) Lines() []string {
	lines := []string{"⚠️  Warning: " + w.Title}
	if w.Message != "" {
		lines = append(lines, indent+w.Message)
	}
	if n := len(w.Files); n > 0 {
		lines = append(lines, indent+"Affected "+plural(n, "path", "paths")+":")
		for i, file := range w.Files {
			lines = append(lines, fmt.Sprintf("%s  %d. %s", indent, i+1, file))
		}
	}
	if w.Suggestion != "" {
		lines = append(lines, indent+"Suggestion:", indent+w.Suggestion)
	}
	return lines
}

// Fprint writes the warning to out, in yellow when colored is set.
func (w Warning) Fprint(out io.Writer, colored bool) {
	yellow := color.New(color.FgYellow)
	if colored {
		yellow.EnableColor()
	} else {
		yellow.DisableColor()
	}
	for _, line := range w.Lines() {
		yellow.Fprintln(out, line)
	}
}

// VCSWarning returns a warning listing version-control directories in dirs,
// and false when there are none.
func VCSWarning(dirs []string) (Warning, bool) {
	var found []string
	for _, dir := range dirs {
		switch filepath.Base(filepath.Clean(dir)) {
		case ".git", ".hg":
			found = append(found, dir)
		}
	}
	if len(found) == 0 {
		return Warning{}, false
	}

	return Warning{
		Title:      fmt.Sprintf("Scanned %d version-control director%s", len(found), plural(len(found), "y", "ies")),
		Message:    "VCS metadata directories are included as include paths",
		Files:      found,
		Suggestion: "Pass --skip-vcs (or set skip_vcs: true) to prune .git and .hg",
	}, true
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
