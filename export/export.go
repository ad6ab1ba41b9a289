// Package export 把布局结果写成 <path><name>.<ext> 形式的文件。
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/ByLCY/ecgplot/layout"
	"github.com/ByLCY/ecgplot/renderer"
)

const (
	// DefaultPath 是未指定目录时使用的输出路径前缀。
	DefaultPath = "./"
	// LayoutTight 表示裁剪到内容边界。
	LayoutTight = "tight"
)

// FileName 拼接输出文件名。path 按前缀直接拼接，调用方需自行带上末尾的分隔符。
func FileName(path, name string, format renderer.Format) string {
	if path == "" {
		path = DefaultPath
	}
	return path + name + format.Ext()
}

// SavePNG 以给定 DPI 与布局方式写出 PNG，返回写入的文件路径。
func SavePNG(r renderer.Renderer, chart *layout.Chart, name, path string, dpi float64, layoutMode string) (string, error) {
	return write(r, chart, FileName(path, name, renderer.PNG), renderer.Options{
		Format: renderer.PNG,
		DPI:    dpi,
		Tight:  isTight(layoutMode),
	})
}

// SaveSVG 写出完整图幅的 SVG。
func SaveSVG(r renderer.Renderer, chart *layout.Chart, name, path string) (string, error) {
	return write(r, chart, FileName(path, name, renderer.SVG), renderer.Options{Format: renderer.SVG})
}

// SaveJPG 写出完整图幅的 JPEG，分辨率为 DefaultDPI。
func SaveJPG(r renderer.Renderer, chart *layout.Chart, name, path string) (string, error) {
	return write(r, chart, FileName(path, name, renderer.JPEG), renderer.Options{
		Format: renderer.JPEG,
		DPI:    renderer.DefaultDPI,
	})
}

// SavePDF 写出 PDF，标题等元信息取自 chart.Meta。
func SavePDF(r renderer.Renderer, chart *layout.Chart, name, path string) (string, error) {
	return write(r, chart, FileName(path, name, renderer.PDF), renderer.Options{Format: renderer.PDF})
}

// Save 按 chart 文档中的 export 段落写出文件。name 为空时使用 fallbackName。
func Save(r renderer.Renderer, chart *layout.Chart, e layout.Export, fallbackName string) (string, error) {
	format, err := renderer.ParseFormat(e.Format)
	if err != nil {
		return "", err
	}
	name := e.Name
	if name == "" {
		name = fallbackName
	}
	if name == "" {
		return "", fmt.Errorf("导出 %s 缺少文件名", format)
	}
	dpi := e.DPI
	if dpi <= 0 {
		dpi = renderer.DefaultDPI
	}
	return write(r, chart, FileName(e.Path, name, format), renderer.Options{
		Format: format,
		DPI:    dpi,
		Tight:  isTight(e.Layout),
	})
}

func isTight(mode string) bool {
	return strings.EqualFold(strings.TrimSpace(mode), LayoutTight)
}

func write(r renderer.Renderer, chart *layout.Chart, file string, opts renderer.Options) (string, error) {
	data, err := r.Render(chart, opts)
	if err != nil {
		return "", fmt.Errorf("渲染 %s 失败: %w", file, err)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return "", fmt.Errorf("写入 %s 失败: %w", file, err)
	}
	return file, nil
}
