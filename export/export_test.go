package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/ecgplot/layout"
	"github.com/ByLCY/ecgplot/renderer"
)

type recordingRenderer struct {
	calls []renderer.Options
	err   error
}

func (r *recordingRenderer) Render(_ *layout.Chart, opts renderer.Options) ([]byte, error) {
	r.calls = append(r.calls, opts)
	if r.err != nil {
		return nil, r.err
	}
	return []byte("chart:" + string(opts.Format)), nil
}

func dirPrefix(t *testing.T) string {
	t.Helper()
	return t.TempDir() + string(filepath.Separator)
}

func TestSaveFunctionsWriteNamedFiles(t *testing.T) {
	dir := dirPrefix(t)
	r := &recordingRenderer{}
	chart := &layout.Chart{Width: 10, Height: 10}

	png, err := SavePNG(r, chart, "ecg", dir, 300, "tight")
	require.NoError(t, err)
	require.Equal(t, dir+"ecg.png", png)

	svg, err := SaveSVG(r, chart, "ecg", dir)
	require.NoError(t, err)
	require.Equal(t, dir+"ecg.svg", svg)

	jpg, err := SaveJPG(r, chart, "ecg", dir)
	require.NoError(t, err)
	require.Equal(t, dir+"ecg.jpg", jpg)

	pdf, err := SavePDF(r, chart, "ecg", dir)
	require.NoError(t, err)
	require.Equal(t, dir+"ecg.pdf", pdf)

	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	require.Equal(t, "chart:svg", string(data))

	require.Equal(t, []renderer.Options{
		{Format: renderer.PNG, DPI: 300, Tight: true},
		{Format: renderer.SVG},
		{Format: renderer.JPEG, DPI: renderer.DefaultDPI},
		{Format: renderer.PDF},
	}, r.calls)
}

func TestSavePNGDefaultLayoutIsFullFigure(t *testing.T) {
	r := &recordingRenderer{}
	_, err := SavePNG(r, &layout.Chart{}, "a", dirPrefix(t), 100, "")
	require.NoError(t, err)
	require.False(t, r.calls[0].Tight)
}

func TestSaveFromExport(t *testing.T) {
	dir := dirPrefix(t)
	r := &recordingRenderer{}

	file, err := Save(r, &layout.Chart{}, layout.Export{Format: "jpeg", Path: dir, Layout: "Tight"}, "report")
	require.NoError(t, err)
	require.Equal(t, dir+"report.jpg", file)
	require.Equal(t, renderer.Options{Format: renderer.JPEG, DPI: renderer.DefaultDPI, Tight: true}, r.calls[0])

	_, err = Save(r, &layout.Chart{}, layout.Export{Format: "gif", Path: dir}, "report")
	require.Error(t, err)

	_, err = Save(r, &layout.Chart{}, layout.Export{Format: "png", Path: dir}, "")
	require.Error(t, err)
}

func TestSaveSurfacesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := SaveSVG(&recordingRenderer{err: boom}, &layout.Chart{}, "a", dirPrefix(t))
	require.ErrorIs(t, err, boom)

	missing := filepath.Join(t.TempDir(), "missing") + string(filepath.Separator)
	_, err = SaveSVG(&recordingRenderer{}, &layout.Chart{}, "a", missing)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileNameDefaultsToCurrentDir(t *testing.T) {
	require.Equal(t, "./ecg.png", FileName("", "ecg", renderer.PNG))
	require.Equal(t, "out/ecg.svg", FileName("out/", "ecg", renderer.SVG))
}
