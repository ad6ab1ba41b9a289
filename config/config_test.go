package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
output_dir = "out/"
dpi = 300
style = "bw"
open_command = "inkview"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "out/", cfg.OutputDir)
	require.Equal(t, 300.0, cfg.DPI)
	require.Equal(t, "bw", cfg.Style)
	require.Equal(t, "inkview", cfg.OpenCommand)
	require.Equal(t, Default().Layout, cfg.Layout)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for _, body := range []string{
		`dpi = 0`,
		`style = "neon"`,
		`colour = "red"`,
		`dpi = "high"`,
	} {
		_, err := Load(writeConfig(t, body))
		require.Error(t, err, body)
	}
}

func TestDefaultPathUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path, err := DefaultPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "ecgplot", "config.toml"), path)
}
