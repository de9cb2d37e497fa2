package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	embed = false
	configFile = ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	for name, content := range map[string]string{
		"fonts/Roboto/Roboto-Bold.ttf":    "bold",
		"fonts/Roboto/Roboto-Regular.ttf": "regular",
		"static/index.html":               "<html></html>",
	} {
		require.NoError(t, os.MkdirAll(filepath.Dir(name), 0755))
		require.NoError(t, os.WriteFile(name, []byte(content), 0644))
	}

	out, err := run(t, "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "Families:       1")
	assert.FileExists(t, "fonts.json")
	assert.FileExists(t, "inline-fonts-data.js")

	out, err = run(t, "split")
	require.NoError(t, err)
	assert.Contains(t, out, "Chunked 1 families into font-chunks (0 skipped)")
	assert.FileExists(t, filepath.Join("font-chunks", "n-z.json"))

	_, err = run(t, "generate", "--base64")
	require.NoError(t, err)
	_, err = run(t, "split")
	require.Error(t, err)
	assert.ErrorIs(t, err, errorx.ErrEmbeddedInput)
	assert.Equal(t, 1, errorx.ExitCode(err))

	out, err = run(t, "build", "portable")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join("dist", "portable"))
	assert.FileExists(t, filepath.Join("dist", "portable", "specimen.html"))

	_, err = run(t, "build", "cdn")
	assert.Equal(t, 2, errorx.ExitCode(err))
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("fontcat.yaml", []byte("Fonts:\n  Root: missing-root\n"), 0644))

	_, err := run(t, "-f", "fontcat.yaml", "generate")
	require.Error(t, err)
	assert.ErrorIs(t, err, errorx.ErrFontRootMissing)
	assert.Equal(t, 1, errorx.ExitCode(err))
}
