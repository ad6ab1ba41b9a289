package source

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/ByLCY/ecgplot/layout"
)

type jsonRecording struct {
	SampleRate float64              `json:"sample_rate"`
	Leads      map[string][]float64 `json:"leads"`
	Names      []string             `json:"names"`
	Data       [][]float64          `json:"data"`
	Meta       map[string]any       `json:"meta"`
}

// ReadJSON 读取两种形式的 JSON：
//
//	{"sample_rate": 500, "leads": {"I": [...], "II": [...]}}
//	{"sample_rate": 500, "names": ["I", "II"], "data": [[...], [...]]}
//
// 使用 leads 对象时按标准 12 导联顺序排列，其余导联按名称排序附在后面。
func ReadJSON(r io.Reader) (*Recording, error) {
	var doc jsonRecording
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("解析 JSON 失败: %w", err)
	}

	rec := &Recording{SampleRate: doc.SampleRate, Meta: doc.Meta}
	switch {
	case len(doc.Leads) > 0:
		for _, name := range orderedNames(doc.Leads) {
			rec.Names = append(rec.Names, name)
			rec.Leads = append(rec.Leads, doc.Leads[name])
		}
	case len(doc.Data) > 0:
		rec.Leads = doc.Data
		rec.Names = doc.Names
		if len(rec.Names) == 0 {
			rec.Names = namesOrDefault(len(rec.Leads))
		}
	default:
		return nil, ErrNoLeads
	}
	if err := rec.validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

func orderedNames(leads map[string][]float64) []string {
	var names, rest []string
	for _, std := range layout.DefaultLeadIndex() {
		if _, ok := leads[std]; ok {
			names = append(names, std)
		}
	}
	for name := range leads {
		if !slices.Contains(names, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(names, rest...)
}
