package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "hodr version "))
}

func TestEvalCommand(t *testing.T) {
	out, err := execute(t, "eval", "order.total", "--input", `{"order":{"total":3}}`)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestValidateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hodr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
modules:
  demo:
    ping:
      - kind: literal
        value: pong
`), 0o644))

	out, err := execute(t, "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Module demo: 1 inputs")
	assert.Contains(t, out, "Config is valid!")
}

func TestValidateCommand_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hodr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tracker:\n  type: disk\n"), 0o644))

	_, err := execute(t, "validate", "--config", path)
	assert.ErrorContains(t, err, "validation failed")
}
