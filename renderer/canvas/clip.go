package canvasrenderer

import (
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/ecgplot/layout"
)

// mapper 把坐标轴的数据坐标映射到画布毫米坐标。
type mapper struct {
	frame  layout.Rect
	xRange layout.Range
	yRange layout.Range
}

func newMapper(ax *layout.Axes) mapper {
	return mapper{frame: ax.Frame, xRange: ax.XRange, yRange: ax.YRange}
}

func (m mapper) point(x, y float64) (float64, float64) {
	px := m.frame.X
	if s := m.xRange.Span(); s != 0 {
		px += (x - m.xRange.Min) / s * m.frame.Width
	}
	py := m.frame.Y
	if s := m.yRange.Span(); s != 0 {
		py += (y - m.yRange.Min) / s * m.frame.Height
	}
	return px, py
}

// polyline 返回裁剪到坐标框内的折线，框外的部分断开。
func (m mapper) polyline(xs, ys []float64) *canvas.Path {
	n := min(len(xs), len(ys))
	p := &canvas.Path{}
	if n < 2 {
		return p
	}
	f := m.frame
	var lastX, lastY float64
	pen := false
	x0, y0 := m.point(xs[0], ys[0])
	for i := 1; i < n; i++ {
		x1, y1 := m.point(xs[i], ys[i])
		ax, ay, bx, by, ok := clipSegment(x0, y0, x1, y1, f)
		if ok {
			if !pen || ax != lastX || ay != lastY {
				p.MoveTo(ax, ay)
			}
			p.LineTo(bx, by)
			lastX, lastY, pen = bx, by, true
		}
		x0, y0 = x1, y1
	}
	return p
}

// clipSegment 用 Liang-Barsky 算法把线段裁剪到矩形 r 内。
func clipSegment(x0, y0, x1, y1 float64, r layout.Rect) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0 - r.X},
		{dx, r.X + r.Width - x0},
		{-dy, y0 - r.Y},
		{dy, r.Y + r.Height - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
