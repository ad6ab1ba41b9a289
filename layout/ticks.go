package layout

import "math"

const tickEpsilon = 1e-9

// arange 返回 start, start+step, ... 中小于 stop 的值（不含 stop）。
// 每个值由 start+i*step 直接计算，避免累加误差。
func arange(start, stop, step float64) []float64 {
	if step <= 0 || stop <= start {
		return nil
	}
	n := int(math.Ceil((stop-start)/step - tickEpsilon))
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, cleanTick(start+float64(i)*step))
	}
	return out
}

// within 过滤掉落在 lim 之外的刻度。
func within(ticks []float64, lim Range) []float64 {
	out := ticks[:0:0]
	for _, v := range ticks {
		if lim.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

// minorTicks 在整个 lim 内按 step/divs 生成次刻度，并去掉与主刻度重合的位置。
// 起点对齐第一个主刻度；没有主刻度时对齐 lim.Min。
func minorTicks(major []float64, step float64, divs int, lim Range) []float64 {
	if step <= 0 || divs <= 1 {
		return nil
	}
	minorStep := step / float64(divs)
	t0 := lim.Min
	if len(major) > 0 {
		t0 = major[0]
	}
	tmin := int(math.Round((lim.Min - t0) / minorStep))
	tmax := int(math.Round((lim.Max-t0)/minorStep)) + 1

	var out []float64
	for k := tmin; k < tmax; k++ {
		if k%divs == 0 {
			continue
		}
		v := cleanTick(t0 + float64(k)*minorStep)
		if !lim.Contains(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// cleanTick 去掉浮点尾数噪声，例如 0.6000000000000001 → 0.6。
func cleanTick(v float64) float64 {
	r := math.Round(v*1e9) / 1e9
	if r == 0 {
		return 0
	}
	return r
}
