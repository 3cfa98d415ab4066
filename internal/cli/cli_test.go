package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := Execute(args, out, errOut)
	return out.String(), errOut.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %v", err)
	return exitErr.Code
}

func TestList(t *testing.T) {
	out, _, err := execute(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "recipe_engine::engine_info\n", out)

	_, _, err = execute(t, "list", "nope")
	assert.Equal(t, 1, exitCode(t, err))
}

func TestDeps(t *testing.T) {
	out, _, err := execute(t, "deps", "recipe_engine::engine_info")
	require.NoError(t, err)
	assert.Equal(t, "recipe_engine/environ\nrecipe_engine/platform\nrecipe_engine/print\nrecipe_engine::engine_info\n", out)

	_, _, err = execute(t, "deps", "engine_info")
	assert.Equal(t, 2, exitCode(t, err))
}

func TestDepsEdges(t *testing.T) {
	out, _, err := execute(t, "deps", "--edges", "recipe_engine::engine_info")
	require.NoError(t, err)
	assert.Contains(t, out, "- name: recipe_engine/platform\n  required_by:\n")
	assert.Contains(t, out, "- name: recipe_engine::engine_info\n  depends_on:\n")
	assert.Contains(t, out, "- recipe_engine/print\n")
}

func TestListRegistry(t *testing.T) {
	out, _, err := execute(t, "list", "--registry")
	require.NoError(t, err)
	assert.Contains(t, out, "NewPlatform")
	assert.Contains(t, out, "PlatformConfig")
	assert.Contains(t, out, "entrypoint:")
	assert.NotContains(t, out, "recipe_engine::engine_info")
}

func TestRunRejectsNaN(t *testing.T) {
	_, _, err := execute(t, "run", "recipe_engine::engine_info", "-p", "show_env=.nan")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
}

func TestRun(t *testing.T) {
	t.Setenv("RECIPEKIT_CLI_TEST", "enabled")
	out, _, err := execute(t, "run", "recipe_engine::engine_info",
		"-p", "show_env=false")
	require.NoError(t, err)
	assert.Contains(t, out, "os: ")
	assert.NotContains(t, out, "RECIPEKIT_CLI_TEST")
}

func TestRunWithPropertiesFile(t *testing.T) {
	t.Setenv("RECIPEKIT_CLI_TEST", "enabled")
	file := filepath.Join(t.TempDir(), "props.yaml")
	require.NoError(t, os.WriteFile(file, []byte("$recipe_engine/environ:\n  allowlist: [RECIPEKIT_CLI_TEST]\n"), 0o600))

	out, _, err := execute(t, "run", "recipe_engine::engine_info", "--properties-file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "env.RECIPEKIT_CLI_TEST: enabled")
}

func TestUsageErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"list", "--this-is-not-a-valid-flag"}},
		{"bad log level", []string{"--log-level", "loud", "list"}},
		{"bad log format", []string{"--log-format", "xml", "list"}},
		{"bad property", []string{"run", "recipe_engine::engine_info", "-p", "novalue"}},
		{"missing properties file", []string{"run", "recipe_engine::engine_info", "--properties-file", "/does/not/exist.yaml"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			assert.Equal(t, 2, exitCode(t, err))
		})
	}
}

func TestHelp(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "run")
}

func TestDebugLogsGoToErr(t *testing.T) {
	out, errOut, err := execute(t, "--log-level", "debug", "deps", "recipe_engine::engine_info")
	require.NoError(t, err)
	assert.NotContains(t, out, "level=DEBUG")
	assert.Contains(t, errOut, "level=DEBUG")
}
