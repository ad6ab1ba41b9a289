package layout

import "math"

// 子图区域相对于图幅的边距（比例）。
type subplotBox struct {
	left, right, bottom, top float64
	wspace, hspace           float64
}

var (
	matrixBox = subplotBox{left: 0.04, right: 0.98, bottom: 0.06, top: 0.95, wspace: 0.04, hspace: 0}
	singleBox = subplotBox{left: 0.04, right: 0.98, bottom: 0.2, top: 0.88}
)

// cell 返回 rows×columns 矩阵中 (row, col) 子图的边框，row 0 位于顶部。
func (b subplotBox) cell(width, height float64, rows, columns, row, col int) Rect {
	totalW := (b.right - b.left) * width
	totalH := (b.top - b.bottom) * height
	cellW := totalW / (float64(columns) + b.wspace*float64(columns-1))
	cellH := totalH / (float64(rows) + b.hspace*float64(rows-1))
	sepW := b.wspace * cellW
	sepH := b.hspace * cellH
	return Rect{
		X:      b.left*width + float64(col)*(cellW+sepW),
		Y:      b.top*height - float64(row+1)*cellH - float64(row)*sepH,
		Width:  cellW,
		Height: cellH,
	}
}

// Subplots 为每个导联生成一组独立坐标轴，按行优先排成 rows×columns 矩阵。
func Subplots(leads [][]float64, p SubplotParams) (*Chart, error) {
	order, names, err := resolveLeads(leads, p.LeadOrder, p.LeadIndex, p.SampleRate, p.Columns)
	if err != nil {
		return nil, err
	}

	secs := Duration(leads[0], p.SampleRate)
	n := len(order)
	rows := Rows(n, p.Columns)
	step := 1.0 / p.SampleRate

	width := Inches((p.Speed / 25) * secs * float64(p.Columns)).ToMM()
	height := Inches((4.1 * p.Voltage / 25) * float64(n) / float64(p.Columns)).ToMM()

	axes := make([]Axes, 0, n)
	for i, lead := range order {
		row, col := i/p.Columns, i%p.Columns
		frame := matrixBox.cell(width, height, rows, p.Columns, row, col)
		ax := stripAxes(frame, secs, p.Amplitude, p.TimeTicks)
		ax.YLabel = names[lead]
		ax.XTickRotation = 90
		ax.XTickLabels = row == rows-1
		ax.YTickLabels = col == 0
		ax.Traces = []Trace{{
			Lead:  names[lead],
			X:     timeAxis(len(leads[lead]), step, 0),
			Y:     shifted(leads[lead], 0),
			Color: traceBlue,
			Width: p.LineWidth,
		}}
		axes = append(axes, ax)
	}

	return &Chart{
		Width:    width,
		Height:   height,
		Title:    Title{Content: p.Title, FontSize: titleFontSize},
		Axes:     axes,
		Duration: secs,
		Rows:     rows,
		Columns:  p.Columns,
		Meta:     Meta{Title: p.Title},
	}, nil
}

// Single 绘制单个导联，坐标轴规则与 Subplots 中的一个子图相同。
func Single(waveform []float64, p SingleParams) (*Chart, error) {
	if _, _, err := resolveLeads([][]float64{waveform}, nil, []string{""}, p.SampleRate, 1); err != nil {
		return nil, err
	}

	secs := Duration(waveform, p.SampleRate)
	width, height := p.Width.ToMM(), p.Height.ToMM()

	ax := stripAxes(singleBox.cell(width, height, 1, 1, 0, 0), secs, p.Amplitude, p.TimeTicks)
	ax.XTickLabels = true
	ax.YTickLabels = true
	ax.Traces = []Trace{{
		X:     timeAxis(len(waveform), 1.0/p.SampleRate, 0),
		Y:     shifted(waveform, 0),
		Color: traceBlue,
		Width: p.LineWidth,
	}}

	return &Chart{
		Width:    width,
		Height:   height,
		Title:    Title{Content: p.Title, FontSize: titleFontSize},
		Axes:     []Axes{ax},
		Duration: secs,
		Rows:     1,
		Columns:  1,
		Meta:     Meta{Title: p.Title},
	}, nil
}

// stripAxes 构造一条心电图带的坐标轴：横轴 [0, secs]，每 timeTicks 一个主刻度；
// 纵轴 [-amplitude, amplitude]，整数主刻度；主次网格为红色与浅红色。
func stripAxes(frame Rect, secs, amplitude, timeTicks float64) Axes {
	xr := Range{Min: 0, Max: secs}
	yr := Range{Min: -amplitude, Max: amplitude}

	xMajor := within(arange(0, secs+timeTicks, timeTicks), xr)
	bound := math.Ceil(amplitude)
	yMajor := within(arange(-bound, bound+1, 1.0), yr)

	return Axes{
		Frame:  frame,
		XRange: xr,
		YRange: yr,
		XTicks: Ticks{
			Step:  timeTicks,
			Major: xMajor,
			Minor: minorTicks(xMajor, timeTicks, minorDivisions, xr),
		},
		YTicks: Ticks{
			Step:  1.0,
			Major: yMajor,
			Minor: minorTicks(yMajor, 1.0, minorDivisions, yr),
		},
		MajorGrid:      GridStyle{Visible: true, Color: Color{1, 0, 0}, Width: gridLineWidth},
		MinorGrid:      GridStyle{Visible: true, Color: Color{1, 0.7, 0.7}, Width: gridLineWidth},
		TickFontSize:   tickFontSize,
		FrameVisible:   true,
		FrameLineWidth: frameLineWidth,
	}
}
