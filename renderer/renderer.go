package renderer

import (
	"fmt"
	"strings"

	"github.com/ByLCY/ecgplot/layout"
)

// Format 是输出文件格式。
type Format string

const (
	PNG  Format = "png"
	SVG  Format = "svg"
	JPEG Format = "jpg"
	PDF  Format = "pdf"
)

// ParseFormat 将扩展名或格式名转为 Format。
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".") {
	case "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "pdf":
		return PDF, nil
	}
	return "", fmt.Errorf("不支持的输出格式 %q", name)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// DefaultDPI 是未指定分辨率时栅格格式使用的 DPI。
const DefaultDPI = 100

// Options 控制一次渲染的输出。DPI 只对 PNG/JPEG 生效；Tight 为 true 时裁剪到内容边界。
type Options struct {
	Format Format
	DPI    float64
	Tight  bool
}

// Renderer 将布局结果输出为最终文件字节，例如 PNG 或 SVG。
type Renderer interface {
	Render(chart *layout.Chart, opts Options) ([]byte, error)
}
