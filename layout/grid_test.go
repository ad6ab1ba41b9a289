package layout

import (
	"errors"
	"math"
	"testing"
)

func flatLeads(n, samples int, value float64) [][]float64 {
	leads := make([][]float64, n)
	for i := range leads {
		leads[i] = make([]float64, samples)
		for k := range leads[i] {
			leads[i][k] = value + float64(i)*0.01
		}
	}
	return leads
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// TestGridTwoLeadsSingleColumn：2 导联、每导联 1000 点、500Hz、单列。
func TestGridTwoLeadsSingleColumn(t *testing.T) {
	p := DefaultGridParams()
	p.Columns = 1
	leads := flatLeads(2, 1000, 0)

	chart, err := Grid(leads, p)
	if err != nil {
		t.Fatalf("Grid 失败: %v", err)
	}
	if chart.Rows != 2 {
		t.Fatalf("rows 期望 2，实际 %d", chart.Rows)
	}
	if !almostEqual(chart.Duration, 2) {
		t.Fatalf("duration 期望 2s，实际 %g", chart.Duration)
	}
	traces := chart.Axes[0].Traces
	if len(traces) != 2 {
		t.Fatalf("期望 2 条曲线，实际 %d", len(traces))
	}
	wantY := []float64{0, -p.RowHeight / 2}
	for i, tr := range traces {
		if tr.X[0] != 0 {
			t.Fatalf("导联 %d xOffset 期望 0，实际 %g", i, tr.X[0])
		}
		if !almostEqual(tr.Y[0]-leads[i][0], wantY[i]) {
			t.Fatalf("导联 %d yOffset 期望 %g，实际 %g", i, wantY[i], tr.Y[0]-leads[i][0])
		}
	}
	if len(chart.Axes[0].Segments) != 0 {
		t.Fatalf("单列不应有分隔线")
	}
}

// TestGridTwelveLeadsTwoColumns：12 导联两列 → 6 行，第 7 个导联位于 (1, 1)。
func TestGridTwelveLeadsTwoColumns(t *testing.T) {
	p := DefaultGridParams()
	leads := flatLeads(12, 1000, 0.1)

	chart, err := Grid(leads, p)
	if err != nil {
		t.Fatalf("Grid 失败: %v", err)
	}
	if chart.Rows != 6 {
		t.Fatalf("rows 期望 6，实际 %d", chart.Rows)
	}
	col, row := GridPosition(7, chart.Rows)
	if col != 1 || row != 1 {
		t.Fatalf("导联 7 期望 (1,1)，实际 (%d,%d)", col, row)
	}

	tr := chart.Axes[0].Traces[7]
	if tr.Lead != "V2" {
		t.Fatalf("第 8 条曲线应为 V2，实际 %s", tr.Lead)
	}
	secs := chart.Duration
	if !almostEqual(tr.X[0], secs) {
		t.Fatalf("第二列 xOffset 期望 %g，实际 %g", secs, tr.X[0])
	}
	if !almostEqual(tr.Y[0]-leads[7][0], -p.RowHeight/2) {
		t.Fatalf("第 1 行 yOffset 期望 %g，实际 %g", -p.RowHeight/2, tr.Y[0]-leads[7][0])
	}

	// 第二列 6 个导联各有一条分隔线，基于即将绘制导联的首个采样点。
	segs := chart.Axes[0].Segments
	if len(segs) != 6 {
		t.Fatalf("期望 6 条分隔线，实际 %d", len(segs))
	}
	_, yOff := GridOffset(1, 0, secs, p.RowHeight)
	if !almostEqual(segs[0].Y1, leads[6][0]+yOff-0.3) || !almostEqual(segs[0].Y2, leads[6][0]+yOff+0.3) {
		t.Fatalf("分隔线范围错误: %#v", segs[0])
	}
	if !almostEqual(segs[0].X1, secs) || segs[0].X1 != segs[0].X2 {
		t.Fatalf("分隔线应为 x=%g 处的竖线: %#v", secs, segs[0])
	}

	labels := chart.Axes[0].Labels
	if len(labels) != 12 {
		t.Fatalf("期望 12 个导联名，实际 %d", len(labels))
	}
	if labels[7].Content != "V2" || !almostEqual(labels[7].X, secs+0.07) || !almostEqual(labels[7].Y, -p.RowHeight/2-0.5) {
		t.Fatalf("导联名位置错误: %#v", labels[7])
	}
}

// TestGridPositionsCoverAllLeads 验证任意 columns/numLeads 下位置一一对应、无空洞。
func TestGridPositionsCoverAllLeads(t *testing.T) {
	for n := 1; n <= 15; n++ {
		for columns := 1; columns <= 5; columns++ {
			rows := Rows(n, columns)
			if rows != int(math.Ceil(float64(n)/float64(columns))) {
				t.Fatalf("n=%d columns=%d rows=%d", n, columns, rows)
			}
			seen := map[[2]int]bool{}
			for pos := 0; pos < n; pos++ {
				c, r := GridPosition(pos, rows)
				if c >= columns || r >= rows {
					t.Fatalf("n=%d columns=%d 位置 %d 越界: (%d,%d)", n, columns, pos, c, r)
				}
				key := [2]int{c, r}
				if seen[key] {
					t.Fatalf("n=%d columns=%d 位置 %d 冲突: (%d,%d)", n, columns, pos, c, r)
				}
				seen[key] = true
				if c*rows+r != pos {
					t.Fatalf("位置不可逆: pos=%d (%d,%d)", pos, c, r)
				}
			}
		}
	}
}

func TestGridOffsets(t *testing.T) {
	for c := 0; c < 4; c++ {
		for i := 0; i < 6; i++ {
			x, y := GridOffset(c, i, 2.5, 6)
			if !almostEqual(y, -3*float64(i)) {
				t.Fatalf("行 %d yOffset=%g", i, y)
			}
			if !almostEqual(x, 2.5*float64(c)) {
				t.Fatalf("列 %d xOffset=%g", c, x)
			}
		}
	}
}

// TestGridTickSpacing 主刻度间距恒为 0.2 / 0.5，与画布尺寸无关。
func TestGridTickSpacing(t *testing.T) {
	for _, columns := range []int{1, 2, 4} {
		p := DefaultGridParams()
		p.Columns = columns
		chart, err := Grid(flatLeads(12, 2500, 0), p)
		if err != nil {
			t.Fatalf("Grid 失败: %v", err)
		}
		ax := chart.Axes[0]
		assertSpacing(t, ax.XTicks.Major, GridTimeStep)
		assertSpacing(t, ax.YTicks.Major, GridAmplitudeStep)
		if ax.XTicks.Major[0] != ax.XRange.Min || ax.YTicks.Major[0] != ax.YRange.Min {
			t.Fatalf("主刻度应从下限开始")
		}
		if last := ax.XTicks.Major[len(ax.XTicks.Major)-1]; last >= ax.XRange.Max {
			t.Fatalf("主刻度不应包含上限: %g", last)
		}
		// 每个主刻度区间内有 4 条次刻度线（5 等分）。
		if got, want := len(ax.XTicks.Minor), 4*len(ax.XTicks.Major); got != want {
			t.Fatalf("columns=%d 次刻度数量 %d，期望 %d", columns, got, want)
		}
	}
}

func TestGridLimits(t *testing.T) {
	x, y := GridLimits(10, 2, 6, 6)
	if x.Min != 0 || x.Max != 20 {
		t.Fatalf("横轴范围错误: %#v", x)
	}
	if !almostEqual(y.Min, 1.5-18) || !almostEqual(y.Max, 1.5) {
		t.Fatalf("纵轴范围错误: %#v", y)
	}
}

func TestGridStyles(t *testing.T) {
	p := DefaultGridParams()
	p.Style = StyleBW
	chart, err := Grid(flatLeads(3, 100, 0), p)
	if err != nil {
		t.Fatalf("Grid 失败: %v", err)
	}
	ax := chart.Axes[0]
	if ax.MajorGrid.Color != (Color{0.4, 0.4, 0.4}) || ax.Traces[0].Color != (Color{0, 0, 0}) {
		t.Fatalf("bw 配色错误: %#v %#v", ax.MajorGrid.Color, ax.Traces[0].Color)
	}

	p.ShowGrid = false
	p.ShowLeadName = false
	chart, err = Grid(flatLeads(3, 100, 0), p)
	if err != nil {
		t.Fatalf("Grid 失败: %v", err)
	}
	ax = chart.Axes[0]
	if ax.MajorGrid.Visible || len(ax.XTicks.Major) != 0 || len(ax.Labels) != 0 {
		t.Fatalf("关闭网格与导联名后不应产生刻度或标注")
	}
}

func TestGridLeadOrderAndIndex(t *testing.T) {
	p := DefaultGridParams()
	p.LeadOrder = []int{2, 0}
	p.LeadIndex = []string{"A", "B", "C"}
	chart, err := Grid(flatLeads(3, 100, 0), p)
	if err != nil {
		t.Fatalf("Grid 失败: %v", err)
	}
	if chart.Rows != 1 {
		t.Fatalf("2 个导联两列应为 1 行，实际 %d", chart.Rows)
	}
	traces := chart.Axes[0].Traces
	if traces[0].Lead != "C" || traces[1].Lead != "A" {
		t.Fatalf("导联顺序错误: %s %s", traces[0].Lead, traces[1].Lead)
	}
}

func TestGridDoesNotMutateInput(t *testing.T) {
	leads := flatLeads(4, 50, 0.25)
	if _, err := Grid(leads, DefaultGridParams()); err != nil {
		t.Fatalf("Grid 失败: %v", err)
	}
	for i, lead := range leads {
		for _, v := range lead {
			if v != 0.25+float64(i)*0.01 {
				t.Fatalf("输入导联 %d 被修改: %g", i, v)
			}
		}
	}
}

func TestGridRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		leads  [][]float64
		mutate func(*GridParams)
		want   error
	}{
		{"zero sample rate", flatLeads(2, 10, 0), func(p *GridParams) { p.SampleRate = 0 }, ErrSampleRate},
		{"no leads", nil, func(*GridParams) {}, ErrEmptyLeads},
		{"empty first lead", [][]float64{{}}, func(*GridParams) {}, ErrEmptyLeads},
		{"zero columns", flatLeads(2, 10, 0), func(p *GridParams) { p.Columns = 0 }, ErrColumns},
		{"order out of range", flatLeads(2, 10, 0), func(p *GridParams) { p.LeadOrder = []int{0, 5} }, ErrLeadOrder},
		{"index too short", flatLeads(3, 10, 0), func(p *GridParams) { p.LeadIndex = []string{"I"} }, ErrLeadOrder},
	}
	for _, c := range cases {
		p := DefaultGridParams()
		c.mutate(&p)
		if _, err := Grid(c.leads, p); !errors.Is(err, c.want) {
			t.Fatalf("%s: 期望 %v，实际 %v", c.name, c.want, err)
		}
	}
}

func TestDefaultsAreFreshSlices(t *testing.T) {
	a := DefaultLeadIndex()
	a[0] = "changed"
	if DefaultLeadIndex()[0] != "I" {
		t.Fatalf("DefaultLeadIndex 返回了共享切片")
	}
	o := DefaultLeadOrder(3)
	o[0] = 9
	if DefaultLeadOrder(3)[0] != 0 {
		t.Fatalf("DefaultLeadOrder 返回了共享切片")
	}
}

func assertSpacing(t *testing.T, ticks []float64, step float64) {
	t.Helper()
	if len(ticks) < 2 {
		t.Fatalf("刻度数量不足: %v", ticks)
	}
	for i := 1; i < len(ticks); i++ {
		if d := ticks[i] - ticks[i-1]; math.Abs(d-step) > 1e-6 {
			t.Fatalf("刻度间距 %g，期望 %g（%g→%g）", d, step, ticks[i-1], ticks[i])
		}
	}
}
