package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIgnoreFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".simignore")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFilter(t *testing.T) {
	paths := []string{
		"/src/mbed-os/features/cellular/",
		"/src/mbed-os/drivers/",
		"/src/mbed-os/TESTS/netsocket/",
		"/src/app/main.cpp",
	}

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "match everything",
			content: ".*",
			want:    []string{},
		},
		{
			name:    "blank lines are dropped",
			content: "\n\ncellular\n\n",
			want: []string{
				"/src/mbed-os/drivers/",
				"/src/mbed-os/TESTS/netsocket/",
				"/src/app/main.cpp",
			},
		},
		{
			name:    "several patterns keep input order",
			content: "TESTS\n^/src/app/",
			want: []string{
				"/src/mbed-os/features/cellular/",
				"/src/mbed-os/drivers/",
			},
		},
		{
			name:    "negative lookahead",
			content: "^(?!/src/app/).*(TESTS|cellular)",
			want: []string{
				"/src/mbed-os/drivers/",
				"/src/app/main.cpp",
			},
		},
		{
			name:    "backreference",
			content: "/(\\w)\\1",
			want: []string{
				"/src/mbed-os/features/cellular/",
				"/src/mbed-os/drivers/",
				"/src/mbed-os/TESTS/netsocket/",
				"/src/app/main.cpp",
			},
		},
		{
			name:    "backreference matching a doubled letter",
			content: "(l)\\1ular",
			want: []string{
				"/src/mbed-os/drivers/",
				"/src/mbed-os/TESTS/netsocket/",
				"/src/app/main.cpp",
			},
		},
		{
			name:    "no matches",
			content: "bootloader",
			want:    paths,
		},
		{
			name:    "empty file",
			content: "",
			want:    paths,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(paths, writeIgnoreFile(t, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_MissingFile(t *testing.T) {
	paths := []string{"/a/", "/b/c.c"}

	got, err := Filter(paths, filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, paths, got)
}

func TestFilter_InvalidPattern(t *testing.T) {
	ignoreFile := writeIgnoreFile(t, "drivers\n(unclosed\n")

	got, err := Filter([]string{"/src/drivers/", "/src/app/"}, ignoreFile)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "line 2")
}

func TestFilter_ReadError(t *testing.T) {
	// A directory exists but cannot be read as a file.
	_, err := Filter([]string{"/x"}, t.TempDir())
	assert.Error(t, err)
}

func TestPatterns_Match(t *testing.T) {
	patterns, err := ParsePatterns("features/FEATURE_BLE\n\\.git/")
	require.NoError(t, err)
	require.Len(t, patterns, 2)

	for path, want := range map[string]bool{
		"/repo/mbed-os/features/FEATURE_BLE/": true,
		"/repo/.git/objects/":                 true,
		"/repo/mbed-os/features/netsocket/":   false,
	} {
		got, err := patterns.Match(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
}

func TestParsePatterns_JavaScriptSyntax(t *testing.T) {
	patterns, err := ParsePatterns("^(?=.*mbed-os)(?!.*drivers).*/$\n(ab)\\1\n[^]*BLE")
	require.NoError(t, err)
	require.Len(t, patterns, 3)

	for path, want := range map[string]bool{
		"/repo/mbed-os/features/": true,
		"/repo/mbed-os/drivers/":  false,
		"/repo/app/":              false,
		"/repo/abab.c":            true,
		"/repo/ab.c":              false,
		"/repo/FEATURE_BLE/x.c":   true,
	} {
		got, err := patterns.Match(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
}

func TestParsePatterns_WindowsLineEndingsAreKept(t *testing.T) {
	patterns, err := ParsePatterns("drivers\r\n")
	require.NoError(t, err)
	require.Len(t, patterns, 1)

	// The trailing carriage return is part of the pattern.
	matched, err := patterns.Match("/src/drivers/")
	require.NoError(t, err)
	assert.False(t, matched)
}
