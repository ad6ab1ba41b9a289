package layout

// 该文件定义布局结果，供布局计算、渲染与调试 JSON 共用。
// 图幅与边框坐标单位为 mm（左下角为原点），曲线、刻度与标注使用数据坐标（秒 / mV）。

// Chart 保存一次绘图调用得到的完整画布描述，由调用方独占。
type Chart struct {
	Width    float64 `json:"width"`  // mm
	Height   float64 `json:"height"` // mm
	Title    Title   `json:"title"`
	Axes     []Axes  `json:"axes"`
	Duration float64 `json:"duration"` // 秒，len(waveform)/sampleRate
	Rows     int     `json:"rows"`
	Columns  int     `json:"columns"`
	Meta     Meta    `json:"meta"`
}

// Title 是图幅顶部居中的标题。
type Title struct {
	Content  string  `json:"content"`
	FontSize float64 `json:"fontSize"` // pt
}

// Meta 记录导出时写入文件的元信息（目前仅 PDF 使用）。
type Meta struct {
	Title   string `json:"title"`
	Subject string `json:"subject,omitempty"`
	Creator string `json:"creator,omitempty"`
}

// Axes 是画布上的一个坐标区域。
type Axes struct {
	Frame  Rect  `json:"frame"`
	XRange Range `json:"xRange"`
	YRange Range `json:"yRange"`
	XTicks Ticks `json:"xTicks"`
	YTicks Ticks `json:"yTicks"`

	MajorGrid GridStyle `json:"majorGrid"`
	MinorGrid GridStyle `json:"minorGrid"`

	Traces   []Trace   `json:"traces"`
	Segments []Segment `json:"segments,omitempty"`
	Labels   []Label   `json:"labels,omitempty"`

	YLabel         string  `json:"yLabel,omitempty"`
	XTickLabels    bool    `json:"xTickLabels"`
	YTickLabels    bool    `json:"yTickLabels"`
	XTickRotation  float64 `json:"xTickRotation,omitempty"` // 角度
	TickFontSize   float64 `json:"tickFontSize,omitempty"`  // pt
	FrameVisible   bool    `json:"frameVisible"`
	FrameLineWidth float64 `json:"frameLineWidth,omitempty"` // pt
}

// Rect 以 mm 表示图幅上的矩形区域。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Range 是闭区间 [Min, Max]。
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max-Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// Contains reports whether v lies in the range, allowing a small tolerance.
func (r Range) Contains(v float64) bool {
	return v >= r.Min-tickEpsilon && v <= r.Max+tickEpsilon
}

// Ticks 保存主刻度与次刻度的位置。Step 为主刻度间距。
type Ticks struct {
	Step  float64   `json:"step"`
	Major []float64 `json:"major"`
	Minor []float64 `json:"minor,omitempty"`
}

// GridStyle 描述网格线样式，Width 单位为 pt。
type GridStyle struct {
	Visible bool    `json:"visible"`
	Color   Color   `json:"color"`
	Width   float64 `json:"width"`
}

// Color 采用 0-1 的 RGB 分量。
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Trace 是一条折线，X/Y 为数据坐标，Width 单位为 pt。
type Trace struct {
	Lead  string    `json:"lead"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
	Color Color     `json:"color"`
	Width float64   `json:"width"`
}

// Segment 是数据坐标下的一条线段（列分隔线）。
type Segment struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// Label 是放置在数据坐标 (X, Y) 处的文字，基线左对齐。
type Label struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"fontSize"` // pt
	Color    Color   `json:"color"`
}
