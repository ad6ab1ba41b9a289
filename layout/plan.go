package layout

import (
	"fmt"
	"strings"

	"github.com/ByLCY/ecgplot/binding"
	"github.com/ByLCY/ecgplot/dsl"
)

// Mode 是图表的排版方式。
type Mode string

const (
	ModeGrid     Mode = "grid"
	ModeSubplots Mode = "subplots"
	ModeSingle   Mode = "single"
)

// ParseMode 将名称转为 Mode，接受少量别名。
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "grid", "plot":
		return ModeGrid, nil
	case "subplots", "matrix", "plot12", "plot_12":
		return ModeSubplots, nil
	case "single", "one", "plot1", "plot_1":
		return ModeSingle, nil
	}
	return "", fmt.Errorf("未知的排版方式 %q（可选 grid/subplots/single）", name)
}

// Export 描述一个输出文件请求。
type Export struct {
	Format string  `json:"format"`
	Name   string  `json:"name,omitempty"`
	Path   string  `json:"path,omitempty"`
	DPI    float64 `json:"dpi,omitempty"`
	Layout string  `json:"layout,omitempty"`
}

// Plan 是 chart 文档解析后的排版计划：模式、参数与导出列表。
type Plan struct {
	Mode     Mode
	Grid     GridParams
	Subplots SubplotParams
	Single   SingleParams
	Lead     int // single 模式绘制的导联
	Exports  []Export
	Meta     Meta

	rateSet  bool
	indexSet bool
}

// NewPlan 返回给定模式下使用默认参数的计划。
func NewPlan(mode Mode) *Plan {
	return &Plan{
		Mode:     mode,
		Grid:     DefaultGridParams(),
		Subplots: DefaultSubplotParams(),
		Single:   DefaultSingleParams(),
	}
}

// PlanDocument 解析 chart 文档：meta 段中的标题会用 data 做 ${...} 插值。
func PlanDocument(doc *dsl.Document, data any) (*Plan, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	var plot *dsl.PlotSection
	var meta *dsl.Block
	var exports []*dsl.ExportSection
	for _, s := range doc.Sections {
		switch {
		case s.Plot != nil:
			if plot != nil {
				return nil, fmt.Errorf("文档中只能有一个 plot 段落（第 %d 行）", s.Plot.Pos.Line)
			}
			plot = s.Plot
		case s.Meta != nil:
			meta = s.Meta.Block
		case s.Export != nil:
			exports = append(exports, s.Export)
		}
	}
	if plot == nil {
		return nil, fmt.Errorf("文档中缺少 plot 段落")
	}

	mode, err := ParseMode(plot.Mode)
	if err != nil {
		return nil, err
	}
	p := NewPlan(mode)
	if err := p.applyPlot(plot.Block); err != nil {
		return nil, fmt.Errorf("plot %s: %w", plot.Mode, err)
	}

	title := p.title()
	if v, ok := meta.Lookup("title"); ok {
		title = v.Text()
	}
	p.SetTitle(binding.Interpolate(title, data))
	if v, ok := meta.Lookup("subject"); ok {
		p.Meta.Subject = binding.Interpolate(v.Text(), data)
	}
	if v, ok := meta.Lookup("creator"); ok {
		p.Meta.Creator = v.Text()
	}

	for _, ex := range exports {
		e, err := parseExport(ex)
		if err != nil {
			return nil, err
		}
		p.Exports = append(p.Exports, e)
	}
	return p, nil
}

// SetTitle 设置所有模式共用的标题。
func (p *Plan) SetTitle(title string) {
	p.Grid.Title = title
	p.Subplots.Title = title
	p.Single.Title = title
	p.Meta.Title = title
}

func (p *Plan) title() string {
	switch p.Mode {
	case ModeSubplots:
		return p.Subplots.Title
	case ModeSingle:
		return p.Single.Title
	default:
		return p.Grid.Title
	}
}

// ApplyRecording 用记录自带的采样率与导联名补全文档中未指定的参数。
func (p *Plan) ApplyRecording(sampleRate float64, names []string) {
	if !p.rateSet && sampleRate > 0 {
		p.Grid.SampleRate = sampleRate
		p.Subplots.SampleRate = sampleRate
		p.Single.SampleRate = sampleRate
	}
	if !p.indexSet && len(names) > 0 {
		p.Grid.LeadIndex = append([]string(nil), names...)
		p.Subplots.LeadIndex = append([]string(nil), names...)
	}
}

// Build 按计划的模式计算布局。
func (p *Plan) Build(leads [][]float64) (*Chart, error) {
	var (
		chart *Chart
		err   error
	)
	switch p.Mode {
	case ModeSubplots:
		chart, err = Subplots(leads, p.Subplots)
	case ModeSingle:
		if p.Lead < 0 || p.Lead >= len(leads) {
			return nil, fmt.Errorf("%w: %d（共 %d 个导联）", ErrLeadOrder, p.Lead, len(leads))
		}
		chart, err = Single(leads[p.Lead], p.Single)
	default:
		chart, err = Grid(leads, p.Grid)
	}
	if err != nil {
		return nil, err
	}
	chart.Meta.Subject = p.Meta.Subject
	chart.Meta.Creator = p.Meta.Creator
	return chart, nil
}

func (p *Plan) applyPlot(block *dsl.Block) error {
	if block == nil {
		return nil
	}
	for _, st := range block.Statements {
		if err := p.applyKey(st.Key, st.Value); err != nil {
			return fmt.Errorf("第 %d 行 %s: %w", st.Pos.Line, st.Key, err)
		}
	}
	return nil
}

func (p *Plan) applyKey(key string, v *dsl.Value) error {
	switch key {
	case "title":
		p.SetTitle(v.Text())
	case "sample-rate":
		f, err := v.Float()
		if err != nil {
			return err
		}
		p.Grid.SampleRate, p.Subplots.SampleRate, p.Single.SampleRate = f, f, f
		p.rateSet = true
	case "columns":
		n, err := v.Int()
		if err != nil {
			return err
		}
		p.Grid.Columns, p.Subplots.Columns = n, n
	case "lead-order":
		order, err := v.Ints()
		if err != nil {
			return err
		}
		p.Grid.LeadOrder, p.Subplots.LeadOrder = order, append([]int(nil), order...)
	case "lead-index":
		names, err := v.Strings()
		if err != nil {
			return err
		}
		p.Grid.LeadIndex, p.Subplots.LeadIndex = names, append([]string(nil), names...)
		p.indexSet = true
	case "lead":
		n, err := v.Int()
		if err != nil {
			return err
		}
		p.Lead = n
	case "style":
		p.Grid.Style = v.Text()
	case "row-height":
		return setFloat(v, &p.Grid.RowHeight)
	case "show-lead-name":
		return setBool(v, &p.Grid.ShowLeadName)
	case "show-grid":
		return setBool(v, &p.Grid.ShowGrid)
	case "show-separate-line":
		return setBool(v, &p.Grid.ShowSeparateLine)
	case "speed":
		return setFloat(v, &p.Subplots.Speed)
	case "voltage":
		return setFloat(v, &p.Subplots.Voltage)
	case "line-width":
		f, err := v.Float()
		if err != nil {
			return err
		}
		p.Subplots.LineWidth, p.Single.LineWidth = f, f
	case "amplitude":
		f, err := v.Float()
		if err != nil {
			return err
		}
		p.Subplots.Amplitude, p.Single.Amplitude = f, f
	case "time-ticks":
		f, err := v.Float()
		if err != nil {
			return err
		}
		p.Subplots.TimeTicks, p.Single.TimeTicks = f, f
	case "width":
		return setLength(v, &p.Single.Width)
	case "height":
		return setLength(v, &p.Single.Height)
	default:
		return fmt.Errorf("未知参数")
	}
	return nil
}

func parseExport(ex *dsl.ExportSection) (Export, error) {
	e := Export{Format: strings.ToLower(ex.Format)}
	switch e.Format {
	case "png", "svg", "jpg", "jpeg", "pdf":
	default:
		return e, fmt.Errorf("第 %d 行: 不支持的导出格式 %q", ex.Pos.Line, ex.Format)
	}
	if v, ok := ex.Block.Lookup("name"); ok {
		e.Name = v.Text()
	}
	if v, ok := ex.Block.Lookup("path"); ok {
		e.Path = v.Text()
	}
	if v, ok := ex.Block.Lookup("layout"); ok {
		e.Layout = v.Text()
	}
	if v, ok := ex.Block.Lookup("dpi"); ok {
		if err := setFloat(v, &e.DPI); err != nil {
			return e, fmt.Errorf("第 %d 行 dpi: %w", ex.Pos.Line, err)
		}
	}
	return e, nil
}

func setFloat(v *dsl.Value, dst *float64) error {
	f, err := v.Float()
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

func setBool(v *dsl.Value, dst *bool) error {
	b, err := v.Bool()
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

func setLength(v *dsl.Value, dst *Length) error {
	l, err := ParseLength(v.Text())
	if err != nil {
		return err
	}
	*dst = l
	return nil
}
