package viewer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/ecgplot/layout"
	"github.com/ByLCY/ecgplot/renderer"
)

type svgStub struct{}

func (svgStub) Render(*layout.Chart, renderer.Options) ([]byte, error) {
	return []byte("<svg/>"), nil
}

func TestShowIncrementsCounter(t *testing.T) {
	dir := t.TempDir() + string(filepath.Separator)
	var opened []string
	s := NewSession(dir, svgStub{}, LauncherFunc(func(path string) error {
		opened = append(opened, path)
		return nil
	}), nil)
	require.Equal(t, 1, s.Counter())

	first, err := s.Show(&layout.Chart{})
	require.NoError(t, err)
	second, err := s.Show(&layout.Chart{})
	require.NoError(t, err)

	require.Equal(t, dir+"show_tmp_file_1.svg", first)
	require.Equal(t, dir+"show_tmp_file_2.svg", second)
	require.Equal(t, []string{first, second}, opened)
	require.Equal(t, 3, s.Counter())

	for _, f := range opened {
		_, err := os.Stat(f)
		require.NoError(t, err)
	}
}

func TestShowIgnoresLauncherFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	s := NewSession(t.TempDir()+string(filepath.Separator), svgStub{}, LauncherFunc(func(string) error {
		return errors.New("no display")
	}), logger)

	file, err := s.Show(&layout.Chart{})
	require.NoError(t, err)
	require.FileExists(t, file)
	require.Contains(t, buf.String(), "no display")
	require.Equal(t, 2, s.Counter())
}

func TestShowWriteFailureKeepsCounter(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing") + string(filepath.Separator)
	s := NewSession(missing, svgStub{}, nil, nil)
	_, err := s.Show(&layout.Chart{})
	require.Error(t, err)
	require.Equal(t, 1, s.Counter())
}

func TestCommandLauncherCommand(t *testing.T) {
	cases := []struct {
		goos string
		name string
		args []string
	}{
		{"darwin", "open", []string{"a.svg"}},
		{"linux", "xdg-open", []string{"a.svg"}},
		{"windows", "cmd", []string{"/c", "start", "", "a.svg"}},
	}
	for _, tc := range cases {
		name, args, err := CommandLauncher{GOOS: tc.goos}.command("a.svg")
		require.NoError(t, err)
		require.Equal(t, tc.name, name)
		require.Equal(t, tc.args, args)
	}

	name, args, err := CommandLauncher{Command: "inkview --fullscreen", GOOS: "plan9"}.command("a.svg")
	require.NoError(t, err)
	require.Equal(t, "inkview", name)
	require.Equal(t, []string{"--fullscreen", "a.svg"}, args)

	_, _, err = CommandLauncher{GOOS: "plan9"}.command("a.svg")
	require.Error(t, err)
}
