// Package source 读取多导联心电记录：EDF、CSV、JSON 文件或合成数据。
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/ecgplot/layout"
)

// ErrNoLeads 表示文件中没有任何导联数据。
var ErrNoLeads = errors.New("记录中没有导联数据")

// Recording 是一次多导联记录。Leads[i] 的导联名为 Names[i]，单位 mV。
// SampleRate 为 0 表示来源没有提供采样率。
type Recording struct {
	Leads      [][]float64
	Names      []string
	SampleRate float64
	// Meta 供标题插值使用，例如 ${patient}、${start}。
	Meta map[string]any
}

// Samples 返回最长导联的采样点数。
func (r *Recording) Samples() int {
	n := 0
	for _, l := range r.Leads {
		n = max(n, len(l))
	}
	return n
}

// Duration 返回记录时长（秒），采样率未知时为 0。
func (r *Recording) Duration() float64 {
	if r.SampleRate <= 0 {
		return 0
	}
	return float64(r.Samples()) / r.SampleRate
}

func (r *Recording) validate() error {
	if len(r.Leads) == 0 {
		return ErrNoLeads
	}
	if len(r.Names) != len(r.Leads) {
		return fmt.Errorf("导联名数量 %d 与导联数量 %d 不一致", len(r.Names), len(r.Leads))
	}
	return nil
}

func (r *Recording) setMeta(key string, v any) {
	if r.Meta == nil {
		r.Meta = map[string]any{}
	}
	r.Meta[key] = v
}

// Open 按扩展名选择解析器读取文件：.edf、.csv、.json。
func Open(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开 %s 失败: %w", path, err)
	}
	defer f.Close()

	var rec *Recording
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".edf":
		rec, err = ReadEDF(f)
	case ".csv":
		rec, err = ReadCSV(f)
	case ".json":
		rec, err = ReadJSON(f)
	default:
		return nil, fmt.Errorf("不支持的数据文件类型 %q（可选 .edf/.csv/.json）", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	rec.setMeta("file", filepath.Base(path))
	return rec, nil
}

// namesOrDefault 在缺少导联名时使用标准 12 导联名，超出部分以序号命名。
func namesOrDefault(n int) []string {
	std := layout.DefaultLeadIndex()
	names := make([]string, n)
	for i := range names {
		if i < len(std) {
			names[i] = std[i]
		} else {
			names[i] = fmt.Sprintf("L%d", i+1)
		}
	}
	return names
}
