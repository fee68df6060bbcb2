package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/simbuild/internal/staging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupWorkspace creates an application tree in a temp dir and chdirs into it:
//
//	mbed_app.json
//	.simignore        (ignores TESTS)
//	main.cpp
//	drivers/spi.c
//	TESTS/t.cpp
func setupWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"mbed_app.json": `{
			"config": {"led": {"value": "LED1"}, "trace": {}},
			"macros": ["MBEDTLS_SHA1_C"],
			"target_overrides": {"*": {"led": "LED3"}}
		}`,
		".simignore":    "TESTS\n",
		"main.cpp":      "",
		"drivers/spi.c": "",
		"TESTS/t.cpp":   "",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	chdirForTest(t, root)
	return root
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func lines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestRootCommand(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "simbuild")
	assert.Contains(t, out, "macros")
	assert.Contains(t, out, "sources")
	assert.Contains(t, out, "args")
}

func TestMacrosCommand(t *testing.T) {
	setupWorkspace(t)

	out, _, err := execute(t, "macros")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"MBED_CONF_APP_TRACE",
		"MBEDTLS_SHA1_C",
		"MBED_CONF_APP_LED=LED3",
	}, lines(out))

	out, _, err = execute(t, "macros", "--defines")
	require.NoError(t, err)
	assert.Equal(t, "-DMBED_CONF_APP_TRACE", lines(out)[0])
}

func TestMacrosCommand_MissingAppConfig(t *testing.T) {
	setupWorkspace(t)

	out, _, err := execute(t, "macros", "--app-config", "nope.json")
	require.NoError(t, err)
	assert.Empty(t, lines(out))
}

func TestMacrosCommand_MalformedAppConfig(t *testing.T) {
	root := setupWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "mbed_app.json"), []byte("{"), 0644))

	_, stderr, err := execute(t, "macros")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse app config")
	// The caller reports the returned error; the command itself prints nothing.
	assert.NotContains(t, stderr, "failed to parse app config")
	assert.NotContains(t, stderr, "Error:")
}

func TestCommandErrorsAreNotPrinted(t *testing.T) {
	root := setupWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".simignore"), []byte("(unclosed\n"), 0644))

	for _, args := range [][]string{
		{"sources"},
		{"args"},
		{"args", "--strategy", "jspi"},
	} {
		_, stderr, err := execute(t, args...)
		require.Error(t, err, args)
		assert.NotContains(t, stderr, err.Error(), args)
		assert.NotContains(t, stderr, "Error:", args)
	}
}

func TestSourcesCommand(t *testing.T) {
	root := setupWorkspace(t)
	sep := string(filepath.Separator)

	out, _, err := execute(t, "sources", "--source", root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		root + sep,
		filepath.Join(root, "drivers") + sep,
		filepath.Join(root, "main.cpp"),
		filepath.Join(root, "drivers", "spi.c"),
	}, lines(out))

	out, _, err = execute(t, "sources", "--source", root, "--files")
	require.NoError(t, err)
	assert.Len(t, lines(out), 2)

	_, _, err = execute(t, "sources", "--dirs", "--files")
	assert.Error(t, err)
}

func TestArgsCommand(t *testing.T) {
	setupWorkspace(t)

	out, stderr, err := execute(t, "args", "--strategy", "emterpretify", "--write", "--out", "BUILD/sim")
	require.NoError(t, err)

	args := lines(out)
	assert.Contains(t, args, "EMTERPRETIFY=1")
	assert.Contains(t, args, "-DMBED_CONF_APP_LED=LED3")
	assert.Equal(t, "main.cpp", args[len(args)-2])
	assert.Equal(t, filepath.Join("drivers", "spi.c"), args[len(args)-1])
	assert.Contains(t, stderr, "Resolved SIMULATOR (emterpretify)")
	assert.Contains(t, stderr, "Staged build")

	manifest, err := staging.ReadManifest("BUILD/sim")
	require.NoError(t, err)
	assert.Equal(t, args, manifest.Args)
	assert.Equal(t, "emterpretify", manifest.Strategy)
}

func TestArgsCommand_InvalidStrategy(t *testing.T) {
	setupWorkspace(t)

	_, _, err := execute(t, "args", "--strategy", "jspi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestConfigFilePrecedence(t *testing.T) {
	root := setupWorkspace(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".simbuild"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".simbuild", "config.yaml"),
		[]byte("strategy: emterpretify\nlog_level: error\n"), 0644))

	out, stderr, err := execute(t, "args")
	require.NoError(t, err)
	assert.Contains(t, lines(out), "EMTERPRETIFY=1")
	assert.Empty(t, stderr, "info output should be filtered at error level")

	out, _, err = execute(t, "args", "--strategy", "asyncify")
	require.NoError(t, err)
	assert.Contains(t, lines(out), "ASYNCIFY=1")
}

func TestSourcesCommand_VCSWarning(t *testing.T) {
	root := setupWorkspace(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "objects"), 0755))

	out, stderr, err := execute(t, "sources", "--dirs")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, ".git")+string(filepath.Separator))
	assert.Contains(t, stderr, "Scanned 1 version-control directory")

	out, stderr, err = execute(t, "sources", "--dirs", "--skip-vcs")
	require.NoError(t, err)
	assert.NotContains(t, out, ".git")
	assert.NotContains(t, stderr, "version-control")
}

func TestArgsCommand_RepeatedWritesAreStable(t *testing.T) {
	setupWorkspace(t)

	first, _, err := execute(t, "args", "--write")
	require.NoError(t, err)
	second, _, err := execute(t, "args", "--write")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotContains(t, second, "BUILD")

	out, _, err := execute(t, "sources", "--dirs")
	require.NoError(t, err)
	assert.NotContains(t, out, "BUILD")
}

// chdirForTest changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
}
