package layout

import "fmt"

// Grid 将全部导联画在同一组坐标轴上：每列是一段时间平移后的时间窗，
// 行之间按半个行高向下堆叠，导联按列优先顺序排布。
func Grid(leads [][]float64, p GridParams) (*Chart, error) {
	order, names, err := resolveLeads(leads, p.LeadOrder, p.LeadIndex, p.SampleRate, p.Columns)
	if err != nil {
		return nil, err
	}

	secs := Duration(leads[0], p.SampleRate)
	n := len(order)
	rows := Rows(n, p.Columns)
	step := 1.0 / p.SampleRate
	palette := PaletteFor(p.Style)

	width := Inches(secs * float64(p.Columns)).ToMM()
	height := Inches(float64(rows) * p.RowHeight / 5).ToMM()

	xr, yr := GridLimits(secs, p.Columns, rows, p.RowHeight)
	ax := Axes{
		Frame:          Rect{X: 0, Y: 0, Width: width, Height: height},
		XRange:         xr,
		YRange:         yr,
		FrameVisible:   true,
		FrameLineWidth: frameLineWidth,
	}

	if p.ShowGrid {
		ax.XTicks = gridTicks(xr, GridTimeStep)
		ax.YTicks = gridTicks(yr, GridAmplitudeStep)
		ax.MajorGrid = GridStyle{Visible: true, Color: palette.Major, Width: gridLineWidth}
		ax.MinorGrid = GridStyle{Visible: true, Color: palette.Minor, Width: gridLineWidth}
	}

	for c := 0; c < p.Columns; c++ {
		for i := 0; i < rows; i++ {
			pos := c*rows + i
			if pos >= n {
				continue
			}
			lead := order[pos]
			xOffset, yOffset := GridOffset(c, i, secs, p.RowHeight)

			// 分隔线取即将绘制的导联首个采样点作为基准。
			if c > 0 && p.ShowSeparateLine {
				first := leads[lead][0] + yOffset
				ax.Segments = append(ax.Segments, Segment{
					X1: xOffset, Y1: first - 0.3,
					X2: xOffset, Y2: first + 0.3,
					Color: palette.Line,
					Width: gridLineWidth,
				})
			}
			if p.ShowLeadName {
				ax.Labels = append(ax.Labels, Label{
					Content:  names[lead],
					X:        xOffset + 0.07,
					Y:        yOffset - 0.5,
					FontSize: labelFontSize,
				})
			}
			ax.Traces = append(ax.Traces, Trace{
				Lead:  names[lead],
				X:     timeAxis(len(leads[lead]), step, xOffset),
				Y:     shifted(leads[lead], yOffset),
				Color: palette.Line,
				Width: gridLineWidth,
			})
		}
	}

	return &Chart{
		Width:    width,
		Height:   height,
		Title:    Title{Content: p.Title, FontSize: titleFontSize},
		Axes:     []Axes{ax},
		Duration: secs,
		Rows:     rows,
		Columns:  p.Columns,
		Meta:     Meta{Title: p.Title},
	}, nil
}

// Major grid spacing in grid mode: 0.2 s horizontally, 0.5 mV vertically.
const (
	GridTimeStep      = 0.2
	GridAmplitudeStep = 0.5
)

// Rows returns ceil(n/columns).
func Rows(n, columns int) int {
	return (n + columns - 1) / columns
}

// GridPosition 返回列优先排布下第 pos 个导联所在的 (列, 行)。
func GridPosition(pos, rows int) (column, row int) {
	return pos / rows, pos % rows
}

// GridOffset 返回 (列 c, 行 i) 处曲线的平移量。
func GridOffset(c, i int, secs, rowHeight float64) (x, y float64) {
	y = -(rowHeight / 2) * float64(i)
	if c > 0 {
		x = secs * float64(c)
	}
	return x, y
}

// GridLimits 返回网格模式下坐标轴的显示范围。
func GridLimits(secs float64, columns, rows int, rowHeight float64) (x, y Range) {
	x = Range{Min: 0, Max: float64(columns) * secs}
	y = Range{
		Min: rowHeight/4 - (float64(rows)/2)*rowHeight,
		Max: rowHeight / 4,
	}
	return x, y
}

// Duration returns len(waveform)/sampleRate in seconds.
func Duration(waveform []float64, sampleRate float64) float64 {
	return float64(len(waveform)) / sampleRate
}

func gridTicks(lim Range, step float64) Ticks {
	major := arange(lim.Min, lim.Max, step)
	return Ticks{
		Step:  step,
		Major: major,
		Minor: minorTicks(major, step, minorDivisions, lim),
	}
}

// timeAxis 返回 [offset, offset+step, ...] 共 n 个时间点。
func timeAxis(n int, step, offset float64) []float64 {
	xs := make([]float64, n)
	for k := range xs {
		xs[k] = float64(k)*step + offset
	}
	return xs
}

// shifted 返回 samples+offset 的新切片，不修改输入。
func shifted(samples []float64, offset float64) []float64 {
	out := make([]float64, len(samples))
	for k, v := range samples {
		out[k] = v + offset
	}
	return out
}

// resolveLeads 补全导联顺序与名称，并拒绝会导致几何计算失效的输入。
func resolveLeads(leads [][]float64, order []int, index []string, sampleRate float64, columns int) ([]int, []string, error) {
	if sampleRate <= 0 {
		return nil, nil, fmt.Errorf("%w: %g", ErrSampleRate, sampleRate)
	}
	if len(leads) == 0 || len(leads[0]) == 0 {
		return nil, nil, ErrEmptyLeads
	}
	if columns < 1 {
		return nil, nil, fmt.Errorf("%w: %d", ErrColumns, columns)
	}
	if len(order) == 0 {
		order = DefaultLeadOrder(len(leads))
	} else {
		order = append([]int(nil), order...)
	}
	if index == nil {
		index = DefaultLeadIndex()
	}
	for _, idx := range order {
		if idx < 0 || idx >= len(leads) || idx >= len(index) {
			return nil, nil, fmt.Errorf("%w: %d（导联 %d 个，名称 %d 个）", ErrLeadOrder, idx, len(leads), len(index))
		}
		if len(leads[idx]) == 0 {
			return nil, nil, fmt.Errorf("%w: 导联 %d 没有采样点", ErrEmptyLeads, idx)
		}
	}
	return order, index, nil
}
